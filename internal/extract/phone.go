// Package extract turns free-form table cell text into structured client
// data: phone numbers, name components, and visit dates.
package extract

import (
	"regexp"
	"strings"
)

// Phone patterns ordered most specific to most permissive. A generic digit
// run must not swallow a structured national number, so the national forms
// are tried first.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`0\d{9}`),                                      // 0XXXXXXXXX
	regexp.MustCompile(`0\d[\s.\-]?\d{2}[\s.\-]?\d{2}[\s.\-]?\d{2}[\s.\-]?\d{2}`), // 0X XX XX XX XX
	regexp.MustCompile(`\+?\d{2,4}[\s.\-]?\d{2,4}[\s.\-]?\d{2,4}[\s.\-]?\d{2,4}`),    // international
	regexp.MustCompile(`\d{9,}`),                                      // ≥9 consecutive digits
}

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits and keeps the result only
// when it holds at least 9 digits.
func NormalizePhone(s string) string {
	if s == "" {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) < 9 {
		return ""
	}
	return digits
}

// ExtractPhone finds one phone number embedded in free text. It returns the
// normalized digit string and the text with the matched spans removed. When
// no pattern yields at least 9 digits, the phone is empty and the text is
// returned unchanged.
func ExtractPhone(text string) (phone, remainder string) {
	for _, re := range phonePatterns {
		match := re.FindString(text)
		if match == "" {
			continue
		}
		candidate := NormalizePhone(match)
		if candidate == "" {
			continue
		}
		return candidate, strings.TrimSpace(re.ReplaceAllString(text, ""))
	}
	return "", text
}
