package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiance-crm/loyalty-cli/internal/docsource"
	"github.com/radiance-crm/loyalty-cli/internal/model"
)

func testRow(cells ...string) docsource.Row {
	row := make(docsource.Row, len(cells))
	for i, c := range cells {
		row[i] = docsource.Text(c)
	}
	return row
}

func testDoc(tables ...docsource.Table) *docsource.Document {
	return &docsource.Document{SourceID: "planning.docx", Tables: tables}
}

func headerOpts() WalkerOptions {
	return WalkerOptions{HeaderDetect: true, Now: testNow}
}

func TestWalkDocument_HeaderMode(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom du client", "Dates des séances", "Téléphone"),
		testRow("Dupont Marie", "12/03/2024, 05/04/2024", "06 01 02 03 04"),
		testRow("Martin Jean", "20/03/2024", ""),
	})

	records := WalkDocument(doc, headerOpts())
	require.Len(t, records, 2)

	assert.Equal(t, "Dupont", records[0].LastName)
	assert.Equal(t, "Marie", records[0].FirstName)
	assert.Equal(t, "0601020304", records[0].Phone)
	assert.Equal(t, []model.Date{
		{Day: 12, Month: 3, Year: 2024},
		{Day: 5, Month: 4, Year: 2024},
	}, records[0].Dates)
	assert.Equal(t, "planning.docx", records[0].SourceID)

	assert.Equal(t, "Martin", records[1].LastName)
	assert.Empty(t, records[1].Phone)
}

func TestWalkDocument_HeaderMode_SkipsTableWithoutNameColumn(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Horaire", "Salle"),
		testRow("10h00", "A"),
	})

	assert.Empty(t, WalkDocument(doc, headerOpts()))
}

func TestWalkDocument_HeaderMode_SkipsHeaderOnlyTable(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom", "Date"),
	})

	assert.Empty(t, WalkDocument(doc, headerOpts()))
}

// All clients packed into one cell share the row's full date set: the
// source does not say which of them attended which date, so each gets
// every date. Pinned behavior.
func TestWalkDocument_SharedCellClientsShareDates(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom", "Date"),
		testRow("Dupont Marie; Martin Jean", "12/03/2024"),
	})

	records := WalkDocument(doc, headerOpts())
	require.Len(t, records, 2)

	want := []model.Date{{Day: 12, Month: 3, Year: 2024}}
	assert.Equal(t, want, records[0].Dates)
	assert.Equal(t, want, records[1].Dates)
}

func TestWalkDocument_SplitsOnLineBreaks(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom", "Date"),
		testRow("Dupont Marie\nMartin Jean", "12/03/2024"),
	})

	records := WalkDocument(doc, headerOpts())
	require.Len(t, records, 2)
	assert.Equal(t, "Dupont", records[0].LastName)
	assert.Equal(t, "Martin", records[1].LastName)
}

func TestWalkDocument_DropsUnparsableFragments(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom", "Date"),
		testRow("22 02; Dupont Marie", "12/03/2024"),
	})

	records := WalkDocument(doc, headerOpts())
	require.Len(t, records, 1)
	assert.Equal(t, "Dupont", records[0].LastName)
}

func TestWalkDocument_PhoneColumnWinsOverNamePhone(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Nom", "Tél"),
		testRow("Dupont Marie 0699999999", "0601020304"),
	})

	records := WalkDocument(doc, headerOpts())
	require.Len(t, records, 1)
	assert.Equal(t, "0601020304", records[0].Phone)
}

func TestWalkDocument_PositionalMode(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Dupont Marie", "12/03/2024", "05/04/2024, 12/03/2024"),
		testRow("Martin Jean 0601020304", "20/03/2024"),
	})

	records := WalkDocument(doc, WalkerOptions{Now: testNow})
	require.Len(t, records, 2)

	assert.Equal(t, []model.Date{
		{Day: 12, Month: 3, Year: 2024},
		{Day: 5, Month: 4, Year: 2024},
	}, records[0].Dates)
	assert.Equal(t, "0601020304", records[1].Phone)
}

func TestWalkDocument_NestedFragmentsFlattened(t *testing.T) {
	doc := testDoc(docsource.Table{
		docsource.Row{
			docsource.Sequence{docsource.Text("Dupont"), docsource.Text("Marie")},
			docsource.Text("12/03/2024"),
		},
	})

	records := WalkDocument(doc, WalkerOptions{Now: testNow})
	require.Len(t, records, 1)
	assert.Equal(t, "Dupont", records[0].LastName)
	assert.Equal(t, "Marie", records[0].FirstName)
}

func TestWalkDocument_CustomProfile(t *testing.T) {
	doc := testDoc(docsource.Table{
		testRow("Kunde", "Termin"),
		testRow("Dupont Marie", "12/03/2024"),
	})

	opts := headerOpts()
	opts.Profile = ColumnProfile{
		NameKeywords:  []string{"kunde"},
		DateKeywords:  []string{"termin"},
		PhoneKeywords: []string{"telefon"},
	}

	records := WalkDocument(doc, opts)
	require.Len(t, records, 1)
	assert.Equal(t, "Dupont", records[0].LastName)
	assert.Len(t, records[0].Dates, 1)
}
