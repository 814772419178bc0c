package docsource

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads every sheet of a workbook as one table. Cells are plain
// text leaves; numeric and date cells are rendered through the cell's
// formatted string form.
func ReadXLSX(path string) (*Document, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	out := &Document{SourceID: filepath.Base(path)}
	for _, sheet := range f.Sheets {
		table := make(Table, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			cells := make(Row, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = Text(cell.String())
			}
			table = append(table, cells)
		}
		out.Tables = append(out.Tables, table)
	}
	return out, nil
}
