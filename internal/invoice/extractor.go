package invoice

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/patterns"
)

// header cell positions, zero-based (table, row, column)
var (
	ediCell      = [3]int{0, 2, 1}
	deliveryCell = [3]int{1, 3, 1}
	numberCell   = [3]int{2, 0, 1}
	dateCell     = [3]int{2, 0, 3}
)

// minHeaderTables is the number of tables a page needs before header cells are read.
const minHeaderTables = 3

// Option configures an Extractor or Accumulator
type Option func(*options)

type options struct {
	patterns      *patterns.Invoice
	policy        DuplicatePolicy
	minItemTables int
	log           zerolog.Logger
	hasLog        bool
}

// WithPatterns shares a compiled pattern set.
func WithPatterns(p *patterns.Invoice) Option {
	return func(o *options) { o.patterns = p }
}

// WithDuplicatePolicy sets how repeated EANs are merged.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithMinItemTables skips item extraction on pages with fewer than n tables.
// Zero disables the check.
func WithMinItemTables(n int) Option {
	return func(o *options) { o.minItemTables = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
		o.hasLog = true
	}
}

func buildOptions(opts []Option) options {
	o := options{policy: DuplicateOverwrite}
	for _, opt := range opts {
		opt(&o)
	}
	if o.patterns == nil {
		o.patterns = patterns.NewInvoice()
	}
	if !o.hasLog {
		o.log = logger.WithComponent("invoice")
	}
	return o
}

// Extractor pulls invoice metadata and line items from a single page.
type Extractor struct {
	patterns      *patterns.Invoice
	policy        DuplicatePolicy
	minItemTables int
	log           zerolog.Logger
}

var _ document.Extractor[Metadata, *ItemSet] = (*Extractor)(nil)

// NewExtractor creates an invoice extractor.
func NewExtractor(opts ...Option) *Extractor {
	return newExtractor(buildOptions(opts))
}

func newExtractor(o options) *Extractor {
	return &Extractor{
		patterns:      o.patterns,
		policy:        o.policy,
		minItemTables: o.minItemTables,
		log:           o.log,
	}
}

// ExtractMetadata reads header cells from the page tables and the shipment
// number and total quantity from the page text. Missing cells leave the
// table fields unset; the text fields are independent of the tables.
func (e *Extractor) ExtractMetadata(page document.Page) Metadata {
	var m Metadata

	if len(page.Tables) >= minHeaderTables {
		cells, ok := headerCells(page)
		if ok {
			m.EDINumber = document.FromCell(cells[0])
			m.DeliveryNumber = document.FromCell(cells[1])
			m.InvoiceNumber = document.FromCell(cells[2])
			m.InvoiceDate = document.FromCell(cells[3])
		} else {
			e.log.Warn().Int("page", page.Number).Msg("header cells missing from invoice tables")
		}
	} else {
		e.log.Debug().
			Int("page", page.Number).
			Int("tables", len(page.Tables)).
			Msg("insufficient tables for invoice header")
	}

	if v, ok := e.patterns.ShipmentNumber(page.Text); ok {
		m.ShipmentNumber = document.Set(v)
	}
	if v, ok := e.patterns.TotalQuantity(page.Text); ok {
		m.TotalQuantity = document.Set(v)
	}
	return m
}

// headerCells returns the four header cells, or false if any position is missing.
func headerCells(page document.Page) ([4]document.Cell, bool) {
	var cells [4]document.Cell
	for i, pos := range [4][3]int{ediCell, deliveryCell, numberCell, dateCell} {
		c, ok := page.CellAt(pos[0], pos[1], pos[2])
		if !ok {
			return [4]document.Cell{}, false
		}
		cells[i] = c
	}
	return cells, true
}

// ExtractItems finds line items with the two-stage match. A line must pass
// both stages to become an item.
func (e *Extractor) ExtractItems(page document.Page) *ItemSet {
	items := NewItemSet(e.policy)
	if e.minItemTables > 0 && len(page.Tables) < e.minItemTables {
		return items
	}

	for _, raw := range page.Lines() {
		line := strings.TrimSpace(raw)
		if !e.patterns.IsCandidateLine(line) {
			continue
		}
		item, ok := e.parseLine(page.Number, line)
		if !ok {
			continue
		}
		if items.Put(item) {
			e.log.Debug().
				Int("page", page.Number).
				Str("ean", item.EAN).
				Str("policy", string(e.policy)).
				Msg("duplicate EAN on page")
		}
	}
	return items
}

func (e *Extractor) parseLine(pageNum int, line string) (LineItem, bool) {
	one, ok := e.patterns.Stage1(line)
	if !ok {
		e.log.Trace().Int("page", pageNum).Str("line", line).Msg("stage 1 failed")
		return LineItem{}, false
	}
	two, ok := e.patterns.Stage2(line)
	if !ok {
		e.log.Debug().
			Int("page", pageNum).
			Str("ean", one.EAN).
			Str("description", one.Description).
			Str("weight", one.Weight).
			Msg("partial item match: stage 1 ok, stage 2 failed")
		return LineItem{}, false
	}
	return LineItem{
		EAN:           one.EAN,
		Description:   strings.TrimSpace(one.Description),
		Quantity:      document.Set(two.Quantity),
		UnitPrice:     document.Set(two.UnitPrice),
		ExtendedPrice: document.Set(two.ExtendedPrice),
		Country:       document.Set(two.Country),
		ProductCode:   document.Set(two.ProductCode),
	}, true
}

// IsMarkerPage reports whether the page closes the current invoice.
func (e *Extractor) IsMarkerPage(page document.Page) bool {
	return strings.Contains(page.Text, e.patterns.Marker())
}
