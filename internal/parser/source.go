package parser

import (
	"context"
	"fmt"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Source is an opened document presented as an ordered page sequence.
// Page numbers start at 1.
type Source interface {
	NumPages() int
	Page(ctx context.Context, number int) (document.Page, error)
	Close() error
}

// Opener opens sources by path
type Opener interface {
	Open(path string) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(path string) (Source, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Source, error) {
	return f(path)
}

// Pages is an in-memory Source
type Pages []document.Page

// NumPages returns the number of pages.
func (p Pages) NumPages() int {
	return len(p)
}

// Page returns page number, numbering it if the stored page has no number.
func (p Pages) Page(_ context.Context, number int) (document.Page, error) {
	if number < 1 || number > len(p) {
		return document.Page{}, fmt.Errorf("page %d out of range [1, %d]", number, len(p))
	}
	pg := p[number-1]
	if pg.Number == 0 {
		pg.Number = number
	}
	return pg, nil
}

// Close is a no-op.
func (p Pages) Close() error {
	return nil
}
