// Package parser drives trade document extraction: it opens a source,
// resolves its family, feeds its pages in order through the family's
// extractor and aggregator, and reports batch failures per source.
package parser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/intelligence"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/packinglist"
	"github.com/a3tai/tradedoc-reader/internal/patterns"
)

// Option configures a Parser
type Option func(*Parser)

// WithDuplicatePolicy sets the invoice duplicate-EAN policy.
func WithDuplicatePolicy(p invoice.DuplicatePolicy) Option {
	return func(ps *Parser) { ps.policy = p }
}

// WithMinItemTables sets the invoice item table threshold.
func WithMinItemTables(n int) Option {
	return func(ps *Parser) { ps.minItemTables = n }
}

// WithLogger sets the logger used by the parser and the extractors it builds.
func WithLogger(l zerolog.Logger) Option {
	return func(ps *Parser) {
		ps.log = l
		ps.hasLog = true
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(c *intelligence.DocumentClassifier) Option {
	return func(ps *Parser) { ps.classifier = c }
}

// Parser parses trade documents. The compiled pattern sets are shared
// read-only; all per-document state lives inside a single call, so one
// Parser may serve concurrent callers.
type Parser struct {
	opener        Opener
	classifier    *intelligence.DocumentClassifier
	invoicePat    *patterns.Invoice
	packingPat    *patterns.PackingList
	policy        invoice.DuplicatePolicy
	minItemTables int
	log           zerolog.Logger
	hasLog        bool
}

// New creates a parser that opens sources with opener.
func New(opener Opener, opts ...Option) *Parser {
	p := &Parser{
		opener:     opener,
		invoicePat: patterns.NewInvoice(),
		packingPat: patterns.NewPackingList(),
		policy:     invoice.DuplicateOverwrite,
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.hasLog {
		p.log = logger.WithComponent("parser")
	}
	if p.classifier == nil {
		p.classifier = intelligence.NewDocumentClassifierWithLogger(p.log)
	}
	return p
}

// ParseDocument opens path and parses it as t. TypeAuto classifies the
// document first. An unknown type is rejected before the source is opened.
func (p *Parser) ParseDocument(ctx context.Context, path string, t document.Type) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	src, err := p.opener.Open(path)
	if err != nil {
		return nil, document.WrapSourceError("open", path, 0, err)
	}
	defer p.closeSource(path, src)

	return p.ParseSource(ctx, path, src, t)
}

// ParseSource parses an already opened source. The caller keeps ownership
// of src and must close it.
func (p *Parser) ParseSource(ctx context.Context, name string, src Source, t document.Type) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	// a source without pages parses to an empty result
	n := src.NumPages()
	reader := &pageReader{src: src}
	var class intelligence.Classification
	if t == document.TypeAuto {
		var firstPage intelligence.FirstPageFunc
		if n > 0 {
			firstPage = reader.firstPageText
		}
		class = p.classifier.Classify(ctx, name, firstPage)
	} else {
		class = intelligence.Pinned(t)
	}

	log := p.log.With().Str("file", name).Str("type", string(class.Type)).Logger()
	log.Debug().Int("pages", n).Str("method", string(class.Method)).Msg("parsing document")

	result := &Result{
		DocumentType:   string(class.Type),
		FilePath:       name,
		Pages:          n,
		Classification: &class,
	}

	var add func(document.Page)
	var finish func()
	switch class.Type {
	case document.TypePackingList:
		c := packinglist.NewCollector(packinglist.WithPatterns(p.packingPat), packinglist.WithLogger(log))
		add = c.Add
		finish = func() {
			result.PackingItems = c.Finish()
			result.Count = len(result.PackingItems)
		}
	default:
		acc := invoice.NewAccumulator(
			invoice.WithPatterns(p.invoicePat),
			invoice.WithDuplicatePolicy(p.policy),
			invoice.WithMinItemTables(p.minItemTables),
			invoice.WithLogger(log),
		)
		add = acc.Add
		finish = func() {
			result.Invoices = acc.Finish()
			result.Count = len(result.Invoices)
		}
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		page, err := reader.page(ctx, i)
		if err != nil {
			return nil, document.WrapSourceError("read_page", name, i, err)
		}
		add(page)
	}
	finish()

	log.Info().Int("pages", n).Int("count", result.Count).Msg("document parsed")
	return result, nil
}

// Classify resolves the family of path without extracting it. The source
// is opened only when the file name is inconclusive.
func (p *Parser) Classify(ctx context.Context, path string) intelligence.Classification {
	return p.classifier.Classify(ctx, path, func(ctx context.Context) (string, error) {
		src, err := p.opener.Open(path)
		if err != nil {
			return "", err
		}
		defer p.closeSource(path, src)
		if src.NumPages() == 0 {
			return "", document.ErrNoPages
		}
		page, err := src.Page(ctx, 1)
		if err != nil {
			return "", err
		}
		return page.Text, nil
	})
}

func (p *Parser) closeSource(path string, src Source) {
	if err := src.Close(); err != nil {
		p.log.Warn().Err(err).Str("file", path).Msg("failed to close source")
	}
}

// ParseBatch parses every path independently. types may be empty (all
// auto), hold one shared type, or one type per path; anything else fails
// with ErrBatchTypeMismatch before any source is opened. A failing source
// yields an error entry and does not stop the batch.
func (p *Parser) ParseBatch(ctx context.Context, paths []string, types ...document.Type) (*BatchResult, error) {
	resolved, err := resolveTypes(paths, types)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{
		ID:      uuid.NewString(),
		Results: make([]Result, 0, len(paths)),
	}
	log := p.log.With().Str("batch", batch.ID).Logger()
	log.Info().Int("sources", len(paths)).Msg("batch started")

	for i, path := range paths {
		res, err := p.ParseDocument(ctx, path, resolved[i])
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("source failed")
			batch.Results = append(batch.Results, errorResult(path, err))
			batch.Failed++
			continue
		}
		batch.Results = append(batch.Results, *res)
		batch.Succeeded++
	}

	log.Info().
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Msg("batch finished")
	return batch, nil
}

func resolveTypes(paths []string, types []document.Type) ([]document.Type, error) {
	var out []document.Type
	switch len(types) {
	case 0:
		out = make([]document.Type, len(paths))
		for i := range out {
			out[i] = document.TypeAuto
		}
	case 1:
		out = make([]document.Type, len(paths))
		for i := range out {
			out[i] = types[0]
		}
	case len(paths):
		out = types
	default:
		return nil, fmt.Errorf("%w: %d types for %d sources", document.ErrBatchTypeMismatch, len(types), len(paths))
	}

	for i, t := range out {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
	}
	return out, nil
}

// pageReader remembers the first page so classification does not read it twice.
type pageReader struct {
	src   Source
	first *document.Page
}

func (r *pageReader) page(ctx context.Context, n int) (document.Page, error) {
	if n == 1 && r.first != nil {
		return *r.first, nil
	}
	pg, err := r.src.Page(ctx, n)
	if err != nil {
		return document.Page{}, err
	}
	if n == 1 {
		r.first = &pg
	}
	return pg, nil
}

func (r *pageReader) firstPageText(ctx context.Context) (string, error) {
	pg, err := r.page(ctx, 1)
	if err != nil {
		return "", err
	}
	return pg.Text, nil
}
