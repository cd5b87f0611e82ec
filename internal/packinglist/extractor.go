package packinglist

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/patterns"
)

// Option configures an Extractor or Collector
type Option func(*options)

type options struct {
	patterns *patterns.PackingList
	log      zerolog.Logger
	hasLog   bool
}

// WithPatterns shares a compiled pattern set.
func WithPatterns(p *patterns.PackingList) Option {
	return func(o *options) { o.patterns = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
		o.hasLog = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.patterns == nil {
		o.patterns = patterns.NewPackingList()
	}
	if !o.hasLog {
		o.log = logger.WithComponent("packinglist")
	}
	return o
}

// Extractor pulls packing list metadata and items from a single page.
type Extractor struct {
	patterns *patterns.PackingList
	log      zerolog.Logger
}

var _ document.Extractor[Metadata, []Item] = (*Extractor)(nil)

// NewExtractor creates a packing list extractor.
func NewExtractor(opts ...Option) *Extractor {
	o := buildOptions(opts)
	return &Extractor{patterns: o.patterns, log: o.log}
}

// ExtractMetadata runs the three header searches over the page text.
func (e *Extractor) ExtractMetadata(page document.Page) Metadata {
	var m Metadata
	if v, ok := e.patterns.EDINumber(page.Text); ok {
		m.EDINumber = document.Set(v)
	}
	if v, ok := e.patterns.OrderNumber(page.Text); ok {
		m.OrderNumber = document.Set(v)
	}
	if v, ok := e.patterns.ShipmentNumber(page.Text); ok {
		m.ShipmentNumber = document.Set(v)
	}
	return m
}

// ExtractItems matches item lines with the primary pattern and falls back to
// the wrapped-line pattern only when the primary found nothing. Page
// metadata is not stamped here.
func (e *Extractor) ExtractItems(page document.Page) []Item {
	lines := e.patterns.ItemLines(page.Text)
	if len(lines) == 0 {
		lines = e.patterns.ItemLinesFlexible(page.Text)
		if len(lines) > 0 {
			e.log.Debug().
				Int("page", page.Number).
				Int("items", len(lines)).
				Msg("primary item pattern found nothing, fallback matched")
		}
	}

	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			HSCode:         l.HSCode,
			Brand:          l.Brand,
			SKU:            l.SKU,
			Description:    strings.TrimSpace(l.Description),
			Quantity:       strings.ReplaceAll(l.Quantity, ",", ""),
			EAN:            l.EAN,
			Batch:          l.Batch,
			MfgDate:        l.MfgDate,
			ExpDate:        l.ExpDate,
			Origin:         l.Origin,
			DangerousGoods: l.Dangerous,
		})
	}
	return items
}
