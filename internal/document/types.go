package document

import (
	"fmt"
	"strings"
)

// Type identifies a document family
type Type string

const (
	TypeAuto        Type = "auto"
	TypeInvoice     Type = "invoice"
	TypePackingList Type = "packing_list"
)

// ErrorTag is the family tag carried by a failed batch entry.
const ErrorTag = "error"

// ParseType converts a user supplied name into a Type. The empty string maps
// to TypeAuto.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TypeAuto, nil
	case "invoice":
		return TypeInvoice, nil
	case "packing_list", "packing-list", "packinglist":
		return TypePackingList, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
	}
}

// Validate returns ErrUnknownDocumentType for anything other than the three known values.
func (t Type) Validate() error {
	switch t {
	case TypeAuto, TypeInvoice, TypePackingList:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDocumentType, string(t))
	}
}

// Cell is one table cell as produced by the extraction collaborator; nil
// means the cell was absent.
type Cell *string

// Row is a sequence of cells
type Row []Cell

// Table is a grid of rows
type Table []Row

// Page is one page of a source document: the plain text and the table grids
// found on it.
type Page struct {
	Number int     `json:"number"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}

// Lines splits the page text into physical lines.
func (p Page) Lines() []string {
	return strings.Split(p.Text, "\n")
}

// CellAt returns the cell at the given zero-based position and whether the
// table, row and column all exist.
func (p Page) CellAt(table, row, col int) (Cell, bool) {
	if table < 0 || table >= len(p.Tables) {
		return nil, false
	}
	t := p.Tables[table]
	if row < 0 || row >= len(t) {
		return nil, false
	}
	r := t[row]
	if col < 0 || col >= len(r) {
		return nil, false
	}
	return r[col], true
}

// Str returns a Cell holding s. Used when building grids by hand.
func Str(s string) Cell {
	return &s
}

// Extractor is the capability set shared by every document family: header
// metadata and line items pulled from a single page.
type Extractor[M any, I any] interface {
	ExtractMetadata(page Page) M
	ExtractItems(page Page) I
}
