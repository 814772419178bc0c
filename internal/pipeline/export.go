package pipeline

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

// utf8BOM prefixes every export so Excel opens the files as UTF-8. The
// accented column headers render as mojibake without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StandardRow is one line of the standard loyalty export.
type StandardRow struct {
	LastName  string `csv:"Nom"`
	FirstName string `csv:"Prénom"`
	Phone     string `csv:"Téléphone"`
	Sessions  int    `csv:"Nombre de séances"`
}

// DisplayName returns the "First Last" ordering used by the Odoo
// contact import, falling back to the last name alone.
func (r StandardRow) DisplayName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// OdooRow is one line of the Odoo contact import, including the loyalty
// tag column.
type OdooRow struct {
	Name  string `csv:"Name"`
	Phone string `csv:"Phone"`
	Tags  string `csv:"Tags"`
	Notes string `csv:"Notes"`
}

// OdooRowPlain is the tag-free variant written by the converter.
type OdooRowPlain struct {
	Name  string `csv:"Name"`
	Phone string `csv:"Phone"`
	Notes string `csv:"Notes"`
}

// LoyalTag is attached to every exported contact in the tagged Odoo
// variant.
const LoyalTag = "Client Fidèle"

// SortForExport orders records by descending session count, then last
// name, then first name.
func SortForExport(records []model.MergedClientRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SessionCount() != records[j].SessionCount() {
			return records[i].SessionCount() > records[j].SessionCount()
		}
		if records[i].LastName != records[j].LastName {
			return records[i].LastName < records[j].LastName
		}
		return records[i].FirstName < records[j].FirstName
	})
}

// WriteCSV writes the standard loyalty export.
func WriteCSV(w io.Writer, records []model.MergedClientRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return eris.Wrap(err, "export: write bom")
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, m := range records {
		row := StandardRow{
			LastName:  m.LastName,
			FirstName: m.FirstName,
			Phone:     m.Phone,
			Sessions:  m.SessionCount(),
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// WriteOdooCSV writes the Odoo contact import. With withTags set each
// contact carries the loyalty tag column.
func WriteOdooCSV(w io.Writer, records []model.MergedClientRecord, withTags bool) error {
	rows := make([]StandardRow, len(records))
	for i, m := range records {
		rows[i] = StandardRow{
			LastName:  m.LastName,
			FirstName: m.FirstName,
			Phone:     m.Phone,
			Sessions:  m.SessionCount(),
		}
	}
	return WriteOdooRows(w, rows, withTags)
}

// WriteOdooRows writes standard rows in the Odoo contact format. The
// converter command re-exports previously written standard CSVs through
// this path.
func WriteOdooRows(w io.Writer, rows []StandardRow, withTags bool) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return eris.Wrap(err, "export: write bom")
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, r := range rows {
		notes := fmt.Sprintf("Nombre de séances: %d", r.Sessions)
		var err error
		if withTags {
			err = enc.Encode(OdooRow{
				Name:  r.DisplayName(),
				Phone: r.Phone,
				Tags:  LoyalTag,
				Notes: notes,
			})
		} else {
			err = enc.Encode(OdooRowPlain{
				Name:  r.DisplayName(),
				Phone: r.Phone,
				Notes: notes,
			})
		}
		if err != nil {
			return eris.Wrap(err, "export: encode odoo row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// ReadCSV reads a standard loyalty export, tolerating a leading UTF-8
// BOM.
func ReadCSV(r io.Reader) ([]StandardRow, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec, err := csvutil.NewDecoder(csv.NewReader(br))
	if err != nil {
		return nil, eris.Wrap(err, "export: read header")
	}

	var rows []StandardRow
	for {
		var row StandardRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "export: decode row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
