package docsource

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ListDocuments returns the paths of all readable registry documents in a
// directory, in stable name order. Word lock files ("~$" prefix) are
// skipped.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "docsource: read directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".docx", ".xlsx":
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
