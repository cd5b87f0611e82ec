package parser

import (
	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/intelligence"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/packinglist"
)

// Result is the outcome of parsing one source. A failed batch entry has
// DocumentType "error", a zero Count and the failure in Error.
type Result struct {
	DocumentType   string                       `json:"document_type"`
	FilePath       string                       `json:"file_path"`
	Pages          int                          `json:"pages"`
	Classification *intelligence.Classification `json:"classification,omitempty"`
	Invoices       []invoice.Record             `json:"invoices,omitempty"`
	PackingItems   []packinglist.Item           `json:"packing_items,omitempty"`
	Count          int                          `json:"count"`
	Error          string                       `json:"error,omitempty"`
}

// Failed reports whether the result is an error entry.
func (r *Result) Failed() bool {
	return r.DocumentType == document.ErrorTag
}

// Type returns the document family, or TypeAuto for an error entry.
func (r *Result) Type() document.Type {
	if r.Failed() {
		return document.TypeAuto
	}
	return document.Type(r.DocumentType)
}

func errorResult(path string, err error) Result {
	return Result{
		DocumentType: document.ErrorTag,
		FilePath:     path,
		Count:        0,
		Error:        err.Error(),
	}
}

// BatchResult holds one Result per requested source, in request order.
type BatchResult struct {
	ID        string   `json:"id"`
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

// Invoices returns every invoice record across the successful results.
func (b *BatchResult) Invoices() []invoice.Record {
	var out []invoice.Record
	for _, r := range b.Results {
		out = append(out, r.Invoices...)
	}
	return out
}

// PackingItems returns every packing list item across the successful results.
func (b *BatchResult) PackingItems() []packinglist.Item {
	var out []packinglist.Item
	for _, r := range b.Results {
		out = append(out, r.PackingItems...)
	}
	return out
}
