package invoice

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Accumulator builds invoice records from an ordered page sequence. A page
// containing the terms-of-sale marker closes the record in progress and
// contributes nothing itself. Pages must be added in document order.
type Accumulator struct {
	extractor *Extractor
	policy    DuplicatePolicy
	log       zerolog.Logger

	current *Record
	items   *ItemSet
	dupes   int
	records []Record
}

// NewAccumulator creates an accumulator with an empty record open.
func NewAccumulator(opts ...Option) *Accumulator {
	o := buildOptions(opts)
	a := &Accumulator{
		extractor: newExtractor(o),
		policy:    o.policy,
		log:       o.log,
	}
	a.reset()
	return a
}

func (a *Accumulator) reset() {
	a.current = &Record{}
	a.items = NewItemSet(a.policy)
	a.dupes = 0
}

// Add processes one page.
func (a *Accumulator) Add(page document.Page) {
	if strings.TrimSpace(page.Text) == "" {
		a.log.Warn().Int("page", page.Number).Msg("no text on page, skipping")
		return
	}

	if a.extractor.IsMarkerPage(page) {
		a.log.Debug().Int("page", page.Number).Msg("terms of sale page closes invoice")
		a.flush()
		return
	}

	a.current.applyMetadata(a.extractor.ExtractMetadata(page))
	pageItems := a.extractor.ExtractItems(page)
	a.dupes += pageItems.Collisions()
	collided := a.items.Merge(pageItems)
	a.dupes += collided
	if collided > 0 {
		a.log.Debug().
			Int("page", page.Number).
			Int("collisions", collided).
			Str("policy", string(a.policy)).
			Msg("EANs repeated from earlier pages")
	}
}

// flush emits the current record if it has an invoice number and opens a new one.
func (a *Accumulator) flush() {
	if a.current.hasInvoiceNumber() {
		rec := *a.current
		rec.Items = a.items.Items()
		rec.DuplicateEANs = a.dupes
		a.records = append(a.records, rec)
		a.log.Debug().
			Str("invoice", rec.InvoiceNumber.String()).
			Int("items", rec.ItemCount()).
			Msg("invoice record emitted")
	} else if a.items.Len() > 0 {
		a.log.Debug().Int("items", a.items.Len()).Msg("dropping items without invoice number")
	}
	a.reset()
}

// Finish closes the record in progress and returns every emitted record.
// The accumulator is empty afterwards.
func (a *Accumulator) Finish() []Record {
	a.flush()
	out := a.records
	a.records = nil
	return out
}

// Parse runs pages through a fresh accumulator.
func Parse(pages []document.Page, opts ...Option) []Record {
	acc := NewAccumulator(opts...)
	for _, p := range pages {
		acc.Add(p)
	}
	return acc.Finish()
}
