package packinglist

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Collector gathers items across the pages of one packing list.
type Collector struct {
	extractor *Extractor
	log       zerolog.Logger
	items     []Item
}

// NewCollector creates an empty collector.
func NewCollector(opts ...Option) *Collector {
	o := buildOptions(opts)
	return &Collector{
		extractor: &Extractor{patterns: o.patterns, log: o.log},
		log:       o.log,
	}
}

// Add extracts one page and stamps its metadata on every item from it.
func (c *Collector) Add(page document.Page) {
	if strings.TrimSpace(page.Text) == "" {
		c.log.Warn().Int("page", page.Number).Msg("no text on page, skipping")
		return
	}

	meta := c.extractor.ExtractMetadata(page)
	items := c.extractor.ExtractItems(page)
	for i := range items {
		items[i].stamp(meta)
	}
	c.items = append(c.items, items...)

	c.log.Debug().
		Int("page", page.Number).
		Int("items", len(items)).
		Msg("packing list page extracted")
}

// Len returns the number of items collected so far, before grouping.
func (c *Collector) Len() int {
	return len(c.items)
}

// Finish groups the collected items and resets the collector.
func (c *Collector) Finish() []Item {
	grouped := Group(c.items, c.log)
	c.log.Debug().
		Int("collected", len(c.items)).
		Int("grouped", len(grouped)).
		Msg("packing list items grouped")
	c.items = nil
	return grouped
}

// Parse runs pages through a fresh collector.
func Parse(pages []document.Page, opts ...Option) []Item {
	c := NewCollector(opts...)
	for _, p := range pages {
		c.Add(p)
	}
	return c.Finish()
}
