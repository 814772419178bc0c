package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

// Plausibility window for visit dates. Anything outside is an OCR or table
// artifact and is silently dropped, not flagged.
const (
	minPlausibleYear = 2000
	maxPlausibleYear = 2030
)

// dateSeparators normalizes every recognized token separator to one
// delimiter before splitting.
var dateSeparators = strings.NewReplacer(",", "|", ";", "|", "\n", "|", "\r", "|")

// Numeric day-first layouts, tried in order. Two-digit-year layouts pivot
// the parsed year instead of trusting Go's 19xx/20xx split.
var dayFirstLayouts = []struct {
	layout       string
	twoDigitYear bool
}{
	{"2/1/2006", false},
	{"2-1-2006", false},
	{"2.1.2006", false},
	{"2/1/06", true},
	{"2-1-06", true},
	{"2.1.06", true},
	{"2 January 2006", false},
}

// monthNames maps lowercase French and English month names (accented and
// plain spellings, plus common abbreviations) to month numbers.
var monthNames = map[string]int{
	"janvier": 1, "janv": 1, "jan": 1, "january": 1,
	"février": 2, "fevrier": 2, "févr": 2, "fevr": 2, "feb": 2, "february": 2,
	"mars": 3, "mar": 3, "march": 3,
	"avril": 4, "avr": 4, "apr": 4, "april": 4,
	"mai": 5, "may": 5,
	"juin": 6, "jun": 6, "june": 6,
	"juillet": 7, "juil": 7, "jul": 7, "july": 7,
	"août": 8, "aout": 8, "aug": 8, "august": 8,
	"septembre": 9, "sept": 9, "sep": 9, "september": 9,
	"octobre": 10, "oct": 10, "october": 10,
	"novembre": 11, "nov": 11, "november": 11,
	"décembre": 12, "decembre": 12, "déc": 12, "dec": 12, "december": 12,
}

var (
	monthNameRe    = regexp.MustCompile(`^(\d{1,2})(?:er)?\s+(\p{L}+)\.?(?:\s+(\d{2,4}))?$`)
	fallbackDateRe = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})(?:[/.\-](\d{2,4}))?`)
	digitsRe       = regexp.MustCompile(`^\d+$`)
)

// ExtractDates parses a flattened cell possibly holding several date tokens
// separated by commas, semicolons, or line breaks. The result is
// deduplicated and filtered to the plausibility window; ordering is left to
// the caller. now supplies the default year for tokens without one.
func ExtractDates(text string, now time.Time) []model.Date {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	seen := make(map[model.Date]struct{})
	var dates []model.Date
	add := func(d model.Date, ok bool) {
		if !ok || d.Year < minPlausibleYear || d.Year > maxPlausibleYear {
			return
		}
		if _, dup := seen[d]; dup {
			return
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	for _, token := range strings.Split(dateSeparators.Replace(text), "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if d, ok := parseDayFirst(token, now); ok {
			add(d, true)
			continue
		}
		add(parseFallback(token, now))
	}

	return dates
}

// parseDayFirst is the lenient day-first parser: numeric day-first layouts
// first, then "D month [year]" with French or English month names.
// Two-digit years pivot at 50 (below → 2000s, otherwise 1900s).
func parseDayFirst(token string, now time.Time) (model.Date, bool) {
	normalized := strings.ToLower(strings.TrimSpace(token))

	for _, l := range dayFirstLayouts {
		t, err := time.Parse(l.layout, normalized)
		if err != nil {
			continue
		}
		year := t.Year()
		if l.twoDigitYear {
			year = pivotYear(year % 100)
		}
		return model.Date{Day: t.Day(), Month: int(t.Month()), Year: year}, true
	}

	m := monthNameRe.FindStringSubmatch(normalized)
	if m == nil {
		return model.Date{}, false
	}
	month, ok := monthNames[m[2]]
	if !ok {
		return model.Date{}, false
	}
	day := atoi(m[1])
	year := now.Year()
	if m[3] != "" {
		year = atoi(m[3])
		if year < 100 {
			year = pivotYear(year)
		}
	}
	if !validCalendarDate(day, month, year) {
		return model.Date{}, false
	}
	return model.Date{Day: day, Month: month, Year: year}, true
}

// parseFallback is the plain D[D]/M[M][/Y[Y[YY]]] regex path used when the
// lenient parser fails. A missing year defaults to the current year; a
// two-digit year always lands in the 2000s.
func parseFallback(token string, now time.Time) (model.Date, bool) {
	m := fallbackDateRe.FindStringSubmatch(token)
	if m == nil {
		return model.Date{}, false
	}

	day, month := atoi(m[1]), atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year = atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return model.Date{}, false
	}
	return model.Date{Day: day, Month: month, Year: year}, true
}

func pivotYear(twoDigit int) int {
	if twoDigit < 50 {
		return 2000 + twoDigit
	}
	return 1900 + twoDigit
}

// validCalendarDate checks a real calendar date via normalization round
// trip (rejects 31/02 and friends).
func validCalendarDate(day, month, year int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month && t.Year() == year
}

func atoi(s string) int {
	if !digitsRe.MatchString(s) {
		return 0
	}
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
