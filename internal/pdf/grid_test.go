package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(y float64, glyphs ...glyph) textRow {
	return textRow{Y: y, Glyphs: glyphs}
}

func word(x float64, s string) glyph {
	return glyph{X: x, W: float64(len(s)) * 5, S: s}
}

func TestTextRow_Cells(t *testing.T) {
	r := row(700,
		word(100, "Date"),
		glyph{X: 10, W: 5, S: "I"},
		glyph{X: 15, W: 5, S: "NV"},
		word(28, "No"),
		word(60, "4711"),
		glyph{X: 150, S: " "},
	)
	assert.Equal(t, []string{"INV No", "4711", "Date"}, r.cells())
}

func TestTextRow_CellsEstimatesMissingWidths(t *testing.T) {
	r := row(700,
		glyph{X: 10, FontSize: 10, S: "A"},
		glyph{X: 15, FontSize: 10, S: "B"},
		glyph{X: 60, FontSize: 10, S: "C"},
	)
	assert.Equal(t, []string{"AB", "C"}, r.cells())
}

func TestBuildTables(t *testing.T) {
	rows := []textRow{
		row(800, word(10, "COMMERCIAL")),
		row(780, word(10, "Seller"), word(100, "ACME")),
		row(770, word(10, "Buyer"), word(100, "Shop"), word(200, "DE")),
		row(760, word(10, "EDI"), word(100, "EDI42")),
		// a wide vertical gap starts a new table
		row(700, word(10, "Delivery"), word(100, "DLV1")),
		row(650, word(10, "free text line")),
		row(640, word(10, "Invoice"), word(100, "INV1"), word(200, "Date"), word(300, "05.11.2024")),
	}

	tables := buildTables(rows)
	require.Len(t, tables, 3)

	first := tables[0]
	require.Len(t, first, 3)
	assert.Len(t, first[0], 3, "rows are padded to the widest row")
	assert.Nil(t, first[0][2])
	assert.Equal(t, "EDI42", *first[2][1])

	assert.Equal(t, "DLV1", *tables[1][0][1])
	assert.Equal(t, "05.11.2024", *tables[2][0][3])
}

func TestBuildTables_NoMultiCellRows(t *testing.T) {
	assert.Empty(t, buildTables([]textRow{row(10, word(0, "a")), row(0)}))
}

func TestSortRowsTopDown(t *testing.T) {
	rows := []textRow{{Y: 10}, {Y: 700}, {Y: 300}}
	sortRowsTopDown(rows)
	assert.Equal(t, []float64{700, 300, 10}, []float64{rows[0].Y, rows[1].Y, rows[2].Y})
}
