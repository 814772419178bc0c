package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Contains(t, p.NameKeywords, "nom")
	assert.Contains(t, p.DateKeywords, "séance")
	assert.Contains(t, p.PhoneKeywords, "tel")
}

func TestLoadProfile_OverridesAndFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name_keywords:\n  - kunde\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"kunde"}, p.NameKeywords)
	// Unset sections keep the defaults.
	assert.Equal(t, DefaultProfile().DateKeywords, p.DateKeywords)
	assert.Equal(t, DefaultProfile().PhoneKeywords, p.PhoneKeywords)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadProfile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name_keywords: [unbalanced"), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
