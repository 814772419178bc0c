package docsource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeXLSX(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Planning")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().Value = c
		}
	}

	path := filepath.Join(t.TempDir(), "planning.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"Nom", "Date"},
		{"Dupont Marie", "12/03/2024"},
	})

	doc, err := ReadXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, "planning.xlsx", doc.SourceID)
	require.Len(t, doc.Tables, 1)
	require.Len(t, doc.Tables[0], 2)
	assert.Equal(t, "Dupont Marie", Flatten(doc.Tables[0][1][0]))
	assert.Equal(t, "12/03/2024", Flatten(doc.Tables[0][1][1]))
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestReadDocument_DispatchesXLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{{"Nom"}})

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Len(t, doc.Tables, 1)
}
