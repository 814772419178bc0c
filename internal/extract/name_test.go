package extract

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlausibleName_Accepts(t *testing.T) {
	assert.True(t, IsPlausibleName("Dupont Marie"))
	assert.True(t, IsPlausibleName("Éléonore"))
	assert.True(t, IsPlausibleName("  Dupont  "))
}

func TestIsPlausibleName_Rejects(t *testing.T) {
	assert.False(t, IsPlausibleName(""))
	assert.False(t, IsPlausibleName("   "))
	assert.False(t, IsPlausibleName("22 02"))
	assert.False(t, IsPlausibleName("12/03 Dupont"))
	assert.False(t, IsPlausibleName("A"))
	assert.False(t, IsPlausibleName("12/03/2024"))
}

func TestParseName_NameWithPhone(t *testing.T) {
	last, first, phone := ParseName("Dupont Marie 0601020304")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie", first)
	assert.Equal(t, "0601020304", phone)
}

func TestParseName_SpacedPhone(t *testing.T) {
	last, first, phone := ParseName("Dupont Marie 06 01 02 03 04")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie", first)
	assert.Equal(t, "0601020304", phone)
}

// The first token is always read as the last name, even for registries
// that list the first name first. Mislabeled output is the historical
// behavior and downstream consumers rely on the column order staying put.
func TestParseName_TokenOrderConvention(t *testing.T) {
	last, first, _ := ParseName("Sophie Martin")
	assert.Equal(t, "Sophie", last)
	assert.Equal(t, "Martin", first)
}

func TestParseName_SingleToken(t *testing.T) {
	last, first, phone := ParseName("Dupont")
	assert.Equal(t, "Dupont", last)
	assert.Empty(t, first)
	assert.Empty(t, phone)
}

func TestParseName_ExtraTokensDiscarded(t *testing.T) {
	last, first, _ := ParseName("Dupont Marie Claire")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie", first)
}

func TestParseName_TitleCased(t *testing.T) {
	last, first, _ := ParseName("DUPONT marie")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie", first)
}

func TestParseName_HyphenatedFirstName(t *testing.T) {
	last, first, _ := ParseName("Dupont marie-claire")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie-Claire", first)
}

func TestParseName_PunctuationStripped(t *testing.T) {
	last, first, _ := ParseName("Dupont, Marie")
	assert.Equal(t, "Dupont", last)
	assert.Equal(t, "Marie", first)
}

func TestParseName_RejectsNonName(t *testing.T) {
	last, first, phone := ParseName("22 02")
	assert.Empty(t, last)
	assert.Empty(t, first)
	assert.Empty(t, phone)
}

// A cell holding only a phone trips the numeric-only filter before the
// phone is ever extracted, so the whole fragment is dropped.
func TestParseName_PhoneOnlyCellRejected(t *testing.T) {
	last, first, phone := ParseName("0601020304")
	assert.Empty(t, last)
	assert.Empty(t, first)
	assert.Empty(t, phone)
}

// Serve mode parses documents on concurrent goroutines; title casing must
// not share mutable state between them. Run with -race.
func TestParseName_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				last, first, phone := ParseName("dupont marie-claire 0601020304")
				assert.Equal(t, "Dupont", last)
				assert.Equal(t, "Marie-Claire", first)
				assert.Equal(t, "0601020304", phone)
			}
		}()
	}
	wg.Wait()
}
