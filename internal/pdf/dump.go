package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Dump is a page source decoded from a JSON page dump. A dump lets pages
// extracted by another tool be fed to the engine unchanged:
//
//	{"pages": [{"text": "...", "tables": [[["EDI", "4711"], ["x", null]]]}]}
type Dump struct {
	Pages []document.Page `json:"pages"`
}

// ReadDump decodes a page dump. Pages without a number are numbered by position.
func ReadDump(r io.Reader) (*Dump, error) {
	var d Dump
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("invalid page dump: %w", err)
	}
	if d.Pages == nil {
		return nil, fmt.Errorf("invalid page dump: missing pages")
	}
	for i := range d.Pages {
		if d.Pages[i].Number == 0 {
			d.Pages[i].Number = i + 1
		}
	}
	return &d, nil
}

// LoadDump reads a page dump file.
func LoadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDump(f)
}

// WriteDump encodes pages as a page dump.
func WriteDump(w io.Writer, pages []document.Page) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Dump{Pages: pages})
}

// NumPages returns the page count.
func (d *Dump) NumPages() int {
	return len(d.Pages)
}

// Page returns page number.
func (d *Dump) Page(ctx context.Context, number int) (document.Page, error) {
	if err := ctx.Err(); err != nil {
		return document.Page{}, err
	}
	if number < 1 || number > len(d.Pages) {
		return document.Page{}, fmt.Errorf("page %d out of range [1, %d]", number, len(d.Pages))
	}
	return d.Pages[number-1], nil
}

// Close is a no-op; the dump is fully in memory.
func (d *Dump) Close() error {
	return nil
}
