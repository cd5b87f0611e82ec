package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Layout tolerances in PDF user space units.
const (
	// glyphs closer than this belong to the same word
	wordGap = 1.5
	// a horizontal gap wider than this starts a new cell
	cellGap = 12.0
	// rows further apart than this are not part of the same table
	rowGap = 24.0
)

// glyph is one positioned text run on a row
type glyph struct {
	X, W     float64
	FontSize float64
	S        string
}

// width returns W, estimated from the font size when the font carries no widths.
func (g glyph) width() float64 {
	if g.W > 0 {
		return g.W
	}
	return 0.5 * g.FontSize * float64(utf8.RuneCountInString(g.S))
}

// textRow is one baseline of the page, top to bottom
type textRow struct {
	Y      float64
	Glyphs []glyph
}

// cells splits a row into cell strings on wide horizontal gaps.
func (r textRow) cells() []string {
	glyphs := append([]glyph(nil), r.Glyphs...)
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var out []string
	var cell strings.Builder
	end := math.Inf(-1)
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		gap := g.X - end
		switch {
		case cell.Len() == 0:
		case gap > cellGap:
			out = append(out, strings.TrimSpace(cell.String()))
			cell.Reset()
		case gap > wordGap:
			cell.WriteByte(' ')
		}
		cell.WriteString(g.S)
		end = g.X + g.width()
	}
	if cell.Len() > 0 {
		out = append(out, strings.TrimSpace(cell.String()))
	}
	return out
}

// buildTables groups consecutive multi-cell rows into tables. A row with at
// most one cell, or a vertical gap wider than rowGap, ends the current table.
// Rows within a table are padded to the widest row with absent cells.
func buildTables(rows []textRow) []document.Table {
	var tables []document.Table
	var current [][]string
	lastY := math.NaN()

	closeTable := func() {
		if len(current) > 0 {
			tables = append(tables, toTable(current))
		}
		current = nil
	}

	for _, r := range rows {
		cells := r.cells()
		if len(cells) < 2 {
			closeTable()
			lastY = math.NaN()
			continue
		}
		if !math.IsNaN(lastY) && math.Abs(lastY-r.Y) > rowGap {
			closeTable()
		}
		current = append(current, cells)
		lastY = r.Y
	}
	closeTable()
	return tables
}

func toTable(rows [][]string) document.Table {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	t := make(document.Table, 0, len(rows))
	for _, r := range rows {
		row := make(document.Row, width)
		for i, s := range r {
			row[i] = document.Str(s)
		}
		t = append(t, row)
	}
	return t
}

// sortRowsTopDown orders rows by descending baseline.
func sortRowsTopDown(rows []textRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
}
