// Package docsource reads client registry documents (DOCX, XLSX) into a
// uniform table shape: a document yields tables, a table yields rows, a row
// yields cells, and a cell's content is an arbitrarily nested sequence of
// text fragments.
package docsource

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Fragment is one node of a cell's content tree: either a text leaf or a
// nested sequence of fragments.
type Fragment interface {
	fragment()
}

// Text is a leaf fragment.
type Text string

func (Text) fragment() {}

// Sequence is a nested list of fragments.
type Sequence []Fragment

func (Sequence) fragment() {}

// Row is one table row; each element is one cell's content.
type Row []Fragment

// Table is an ordered list of rows.
type Table []Row

// Document is the parsed content of one source file.
type Document struct {
	SourceID string // base name of the originating file
	Tables   []Table
}

// Flatten collapses a fragment tree into a single string, depth-first,
// joining non-empty flattened children with one space. It never panics and
// tolerates nil fragments.
func Flatten(f Fragment) string {
	switch v := f.(type) {
	case nil:
		return ""
	case Text:
		return strings.TrimSpace(string(v))
	case Sequence:
		parts := make([]string, 0, len(v))
		for _, child := range v {
			if s := Flatten(child); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// ReadDocument parses a registry file into tables, dispatching on the file
// extension.
func ReadDocument(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return ReadDOCX(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("docsource: unsupported document type %q", filepath.Ext(path))
	}
}
