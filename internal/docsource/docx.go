package docsource

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// ReadDOCX opens a .docx archive and parses every table in the document
// body. Cell content keeps its paragraph structure as a nested fragment
// sequence; nested tables nest one level deeper.
func ReadDOCX(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrap(err, "docx: open archive")
	}
	defer r.Close() //nolint:errcheck

	var body io.ReadCloser
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return nil, eris.Wrap(err, "docx: open document.xml")
			}
			break
		}
	}
	if body == nil {
		return nil, eris.Errorf("docx: %s has no word/document.xml", filepath.Base(path))
	}
	defer body.Close() //nolint:errcheck

	decoder := xml.NewDecoder(body)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, encErr := htmlindex.Get(charset)
		if encErr != nil {
			return nil, eris.Wrapf(encErr, "docx: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var doc docxDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "docx: parse document.xml")
	}

	out := &Document{SourceID: filepath.Base(path)}
	for _, t := range doc.Tables {
		out.Tables = append(out.Tables, t.toTable())
	}
	return out, nil
}

// docxDocument matches the w:document root. Tags omit the namespace so
// local names match regardless of the producer's prefix.
type docxDocument struct {
	XMLName xml.Name    `xml:"document"`
	Tables  []docxTable `xml:"body>tbl"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

// docxCell collects the ordered mix of paragraphs and nested tables that
// WordprocessingML allows inside a table cell.
type docxCell struct {
	content Sequence
}

func (t docxTable) toTable() Table {
	rows := make(Table, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make(Row, 0, len(r.Cells))
		for _, c := range r.Cells {
			row = append(row, c.content)
		}
		rows = append(rows, row)
	}
	return rows
}

func (t docxTable) toFragment() Sequence {
	seq := make(Sequence, 0, len(t.Rows))
	for _, row := range t.toTable() {
		inner := make(Sequence, 0, len(row))
		for _, cell := range row {
			inner = append(inner, cell)
		}
		seq = append(seq, inner)
	}
	return seq
}

// UnmarshalXML walks the cell's children in document order, turning each
// w:p into a text leaf and each nested w:tbl into a nested sequence.
func (c *docxCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return eris.Wrap(err, "docx: read cell token")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 0 && t.Name.Local == "p":
				text, pErr := decodeParagraph(d, t)
				if pErr != nil {
					return pErr
				}
				c.content = append(c.content, Text(text))
			case depth == 0 && t.Name.Local == "tbl":
				var nested docxTable
				if tblErr := d.DecodeElement(&nested, &t); tblErr != nil {
					return eris.Wrap(tblErr, "docx: parse nested table")
				}
				c.content = append(c.content, nested.toFragment())
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// decodeParagraph concatenates the run text of one w:p, rendering explicit
// line breaks (w:br, w:cr) as newlines so multi-client cells keep their
// separators.
func decodeParagraph(d *xml.Decoder, start xml.StartElement) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return "", eris.Wrap(err, "docx: read paragraph token")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var s string
				if tErr := d.DecodeElement(&s, &t); tErr != nil {
					return "", eris.Wrap(tErr, "docx: read run text")
				}
				b.WriteString(s)
			case "br", "cr":
				b.WriteString("\n")
				depth++
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}
