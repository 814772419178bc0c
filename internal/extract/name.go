package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Only digits, spaces, and date separators: a session tally or date
	// fragment, never a name.
	numericOnlyRe = regexp.MustCompile(`^[\d\s/\-.]+$`)
	// Leading day/month pattern, a date leaking into the name column.
	leadingDateRe = regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}`)
	// At least one Latin letter, accented range included.
	latinLetterRe = regexp.MustCompile(`[a-zA-ZÀ-ÿ]`)
	// Everything but word characters, whitespace, and hyphens.
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// IsPlausibleName reports whether text could be a person name. This is a
// necessary filter, not a sufficient one: it only rejects the obvious
// non-names (numeric cell fragments, leading dates, single characters).
func IsPlausibleName(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if numericOnlyRe.MatchString(text) {
		return false
	}
	if leadingDateRe.MatchString(text) {
		return false
	}
	if len([]rune(text)) < 2 {
		return false
	}
	return latinLetterRe.MatchString(text)
}

// ParseName splits a cell fragment into last name, first name, and phone.
//
// Token order is always (last, first): registries that list the first name
// first are silently mislabeled. That heuristic is preserved for
// compatibility with historical exports; see the pinning test.
func ParseName(text string) (lastName, firstName, phone string) {
	text = strings.TrimSpace(text)
	if !IsPlausibleName(text) {
		return "", "", ""
	}

	phone, rest := ExtractPhone(text)

	rest = punctRe.ReplaceAllString(rest, " ")
	rest = strings.TrimSpace(multiSpaceRe.ReplaceAllString(rest, " "))
	if rest == "" {
		return "", "", phone
	}
	if !IsPlausibleName(rest) {
		// Phone residue only; the whole fragment is rejected.
		return "", "", ""
	}

	// cases.Caser carries internal buffer state and must not be shared
	// across goroutines; serve-mode runs extractions concurrently.
	caser := cases.Title(language.French)

	parts := strings.Fields(rest)
	switch len(parts) {
	case 0:
		return "", "", phone
	case 1:
		return caser.String(parts[0]), "", phone
	default:
		// Tokens beyond the second are discarded.
		return caser.String(parts[0]), caser.String(parts[1]), phone
	}
}
