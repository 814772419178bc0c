package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/radiance-crm/loyalty-cli/internal/docsource"
	"github.com/radiance-crm/loyalty-cli/internal/model"
)

// clientSplitRe separates multiple clients packed into one name cell.
var clientSplitRe = regexp.MustCompile(`[\n\r;]+`)

// WalkerOptions configures table traversal.
type WalkerOptions struct {
	// HeaderDetect locates columns by header keywords and skips tables
	// without a recognizable name column. When false, column 0 holds the
	// name/phone text and every later column holds visit dates.
	HeaderDetect bool
	Profile      ColumnProfile
	// Now supplies the default year for date tokens without one; the zero
	// value means time.Now().
	Now time.Time
}

// WalkDocument extracts one raw client record per (client fragment, row)
// pair from every table of a document. Fragments that yield no last name
// are dropped; every retained fragment in a row receives the row's full
// deduplicated date set, because the source does not attribute dates to
// individual clients within a shared cell.
func WalkDocument(doc *docsource.Document, opts WalkerOptions) []model.RawClientRecord {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if len(opts.Profile.NameKeywords) == 0 {
		opts.Profile = DefaultProfile()
	}

	var records []model.RawClientRecord
	for _, table := range doc.Tables {
		if opts.HeaderDetect {
			records = append(records, walkHeaderTable(table, doc.SourceID, opts)...)
		} else {
			records = append(records, walkPositionalTable(table, doc.SourceID, opts)...)
		}
	}
	return records
}

// walkHeaderTable treats the first row as a header. Tables without an
// identifiable name column (or with no data rows) are skipped entirely.
func walkHeaderTable(table docsource.Table, sourceID string, opts WalkerOptions) []model.RawClientRecord {
	if len(table) < 2 {
		return nil
	}

	header := make([]string, len(table[0]))
	for i, cell := range table[0] {
		header[i] = strings.ToLower(docsource.Flatten(cell))
	}

	nameCol := findColumn(header, opts.Profile.NameKeywords)
	dateCol := findColumn(header, opts.Profile.DateKeywords)
	phoneCol := findColumn(header, opts.Profile.PhoneKeywords)
	if nameCol < 0 {
		return nil
	}

	var records []model.RawClientRecord
	for _, row := range table[1:] {
		if len(row) <= nameCol {
			continue
		}

		var dates []model.Date
		if dateCol >= 0 && len(row) > dateCol {
			dates = ExtractDates(docsource.Flatten(row[dateCol]), opts.Now)
			model.SortDates(dates)
		}

		columnPhone := ""
		if phoneCol >= 0 && len(row) > phoneCol {
			columnPhone = NormalizePhone(docsource.Flatten(row[phoneCol]))
		}

		records = append(records, rowRecords(docsource.Flatten(row[nameCol]), columnPhone, dates, sourceID)...)
	}
	return records
}

// walkPositionalTable uses the fixed convention: column 0 holds the
// name/phone text, all remaining columns hold visit dates.
func walkPositionalTable(table docsource.Table, sourceID string, opts WalkerOptions) []model.RawClientRecord {
	var records []model.RawClientRecord
	for _, row := range table {
		if len(row) == 0 {
			continue
		}

		var dates []model.Date
		for _, cell := range row[1:] {
			if text := docsource.Flatten(cell); text != "" {
				dates = model.UnionDates(dates, ExtractDates(text, opts.Now))
			}
		}

		records = append(records, rowRecords(docsource.Flatten(row[0]), "", dates, sourceID)...)
	}
	return records
}

// findColumn returns the index of the first header cell containing any of
// the keywords, or -1.
func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		for _, kw := range keywords {
			if strings.Contains(cell, kw) {
				return i
			}
		}
	}
	return -1
}

// rowRecords parses every client fragment of a name cell into records
// sharing the row's date set. A phone column value, when present, wins over
// any phone embedded in the name text.
func rowRecords(nameCell, columnPhone string, dates []model.Date, sourceID string) []model.RawClientRecord {
	if strings.TrimSpace(nameCell) == "" {
		return nil
	}

	var records []model.RawClientRecord
	for _, fragment := range clientSplitRe.Split(nameCell, -1) {
		lastName, firstName, namePhone := ParseName(fragment)
		if lastName == "" {
			continue
		}

		phone := columnPhone
		if phone == "" {
			phone = namePhone
		}

		records = append(records, model.RawClientRecord{
			LastName:  lastName,
			FirstName: firstName,
			Phone:     phone,
			Dates:     append([]model.Date(nil), dates...),
			SourceID:  sourceID,
		})
	}
	return records
}
