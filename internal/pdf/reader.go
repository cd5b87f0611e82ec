package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Reader is a page source over a PDF file. Text comes from the plain text
// of each page and table grids from its text rows.
type Reader struct {
	path string
	file *os.File
	pdf  *pdf.Reader
}

// OpenReader opens the PDF at path. The caller must Close the reader.
func OpenReader(path string) (*Reader, error) {
	f, r, err := openPDF(path)
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, file: f, pdf: r}, nil
}

// openPDF wraps pdf.Open, which panics on some malformed files.
func openPDF(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to open PDF: %v", rec)
		}
	}()
	f, r, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return f, r, nil
}

// NumPages returns the page count.
func (r *Reader) NumPages() int {
	return r.pdf.NumPage()
}

// Page extracts page number. A null page yields an empty page, which the
// extractors skip.
func (r *Reader) Page(ctx context.Context, number int) (page document.Page, err error) {
	if err := ctx.Err(); err != nil {
		return document.Page{}, err
	}
	if number < 1 || number > r.pdf.NumPage() {
		return document.Page{}, fmt.Errorf("page %d out of range [1, %d]", number, r.pdf.NumPage())
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to decode page %d: %v", number, rec)
		}
	}()

	p := r.pdf.Page(number)
	page.Number = number
	if p.V.IsNull() {
		return page, nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return document.Page{}, fmt.Errorf("failed to extract text: %w", err)
	}
	page.Text = text

	rows, err := p.GetTextByRow()
	if err != nil {
		return document.Page{}, fmt.Errorf("failed to extract text rows: %w", err)
	}
	page.Tables = buildTables(convertRows(rows))
	return page, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// convertRows orders rows top to bottom; PDF y grows upwards.
func convertRows(rows pdf.Rows) []textRow {
	out := make([]textRow, 0, len(rows))
	for _, row := range rows {
		tr := textRow{Y: float64(row.Position)}
		for _, t := range row.Content {
			tr.Glyphs = append(tr.Glyphs, glyph{X: t.X, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		out = append(out, tr)
	}
	sortRowsTopDown(out)
	return out
}
