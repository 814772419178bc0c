package extract

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ColumnProfile holds the header keywords used to locate the name, date,
// and phone columns. Matching is case-insensitive substring matching.
type ColumnProfile struct {
	NameKeywords  []string `yaml:"name_keywords" mapstructure:"name_keywords"`
	DateKeywords  []string `yaml:"date_keywords" mapstructure:"date_keywords"`
	PhoneKeywords []string `yaml:"phone_keywords" mapstructure:"phone_keywords"`
}

// DefaultProfile returns the keyword sets the source registries use.
func DefaultProfile() ColumnProfile {
	return ColumnProfile{
		NameKeywords:  []string{"nom", "prénom", "prenom", "name", "client"},
		DateKeywords:  []string{"date", "séance", "seance", "rendez", "rdv"},
		PhoneKeywords: []string{"tel", "tél", "phone", "portable", "mobile"},
	}
}

// LoadProfile reads a column profile from a YAML file. Keyword sets left
// empty in the file fall back to the defaults.
func LoadProfile(path string) (ColumnProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ColumnProfile{}, eris.Wrapf(err, "extract: read profile %s", path)
	}

	var p ColumnProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ColumnProfile{}, eris.Wrap(err, "extract: parse profile")
	}

	defaults := DefaultProfile()
	if len(p.NameKeywords) == 0 {
		p.NameKeywords = defaults.NameKeywords
	}
	if len(p.DateKeywords) == 0 {
		p.DateKeywords = defaults.DateKeywords
	}
	if len(p.PhoneKeywords) == 0 {
		p.PhoneKeywords = defaults.PhoneKeywords
	}
	return p, nil
}
