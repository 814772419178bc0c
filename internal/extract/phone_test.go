package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0601020304", NormalizePhone("06 01 02 03 04"))
	assert.Equal(t, "0601020304", NormalizePhone("06.01.02.03.04"))
	assert.Equal(t, "33601020304", NormalizePhone("+33 6 01 02 03 04"))
	assert.Empty(t, NormalizePhone("12345678")) // 8 digits
	assert.Empty(t, NormalizePhone(""))
	assert.Empty(t, NormalizePhone("pas de numéro"))
}

func TestExtractPhone_Compact(t *testing.T) {
	phone, rest := ExtractPhone("Dupont Marie 0601020304")
	assert.Equal(t, "0601020304", phone)
	assert.Equal(t, "Dupont Marie", rest)
}

func TestExtractPhone_Spaced(t *testing.T) {
	phone, rest := ExtractPhone("Dupont Marie 06 01 02 03 04")
	assert.Equal(t, "0601020304", phone)
	assert.Equal(t, "Dupont Marie", rest)
}

func TestExtractPhone_Dotted(t *testing.T) {
	phone, _ := ExtractPhone("06.01.02.03.04 Dupont")
	assert.Equal(t, "0601020304", phone)
}

func TestExtractPhone_BareDigitRun(t *testing.T) {
	phone, rest := ExtractPhone("ref 987654321")
	assert.Equal(t, "987654321", phone)
	assert.Equal(t, "ref", rest)
}

func TestExtractPhone_None(t *testing.T) {
	phone, rest := ExtractPhone("Dupont Marie")
	assert.Empty(t, phone)
	assert.Equal(t, "Dupont Marie", rest)
}

// A short digit run never counts as a phone, so dates in the same cell
// survive extraction untouched.
func TestExtractPhone_IgnoresShortDigitRuns(t *testing.T) {
	phone, rest := ExtractPhone("12/03/2024")
	assert.Empty(t, phone)
	assert.Equal(t, "12/03/2024", rest)
}
