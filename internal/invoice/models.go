// Package invoice extracts commercial invoice records from page text and
// table grids. An invoice may span several pages; pages are accumulated
// into one Record until a terms-of-sale page closes it.
package invoice

import (
	"github.com/a3tai/tradedoc-reader/internal/document"
)

// LineItem is one invoice line, identified by its EAN.
type LineItem struct {
	EAN           string         `json:"ean"`
	Description   string         `json:"description"`
	Quantity      document.Field `json:"quantity"`
	UnitPrice     document.Field `json:"unit_price"`
	ExtendedPrice document.Field `json:"total_price_usd"`
	Country       document.Field `json:"country"`
	ProductCode   document.Field `json:"product_code"`
}

// Metadata is the header information found on one page
type Metadata struct {
	EDINumber      document.Field `json:"edi_number"`
	DeliveryNumber document.Field `json:"delivery_number"`
	InvoiceNumber  document.Field `json:"invoice_number"`
	InvoiceDate    document.Field `json:"invoice_date"`
	ShipmentNumber document.Field `json:"shipment_number"`
	TotalQuantity  document.Field `json:"total_quantity"`
}

// Record is one logical invoice, possibly built from several pages.
type Record struct {
	EDINumber      document.Field `json:"edi_number"`
	DeliveryNumber document.Field `json:"delivery_number"`
	InvoiceNumber  document.Field `json:"invoice_number"`
	InvoiceDate    document.Field `json:"invoice_date"`
	ShipmentNumber document.Field `json:"shipment_number"`
	TotalQuantity  document.Field `json:"total_quantity"`

	// Items are kept in the order each EAN was first seen.
	Items []LineItem `json:"items"`

	// DuplicateEANs counts lines whose EAN was already present in the record.
	DuplicateEANs int `json:"duplicate_eans"`
}

// ItemCount returns the number of distinct EANs in the record.
func (r *Record) ItemCount() int {
	return len(r.Items)
}

// Item returns the line item for ean.
func (r *Record) Item(ean string) (LineItem, bool) {
	for _, it := range r.Items {
		if it.EAN == ean {
			return it, true
		}
	}
	return LineItem{}, false
}

// applyMetadata merges one page's metadata. Per-page identifiers are
// replaced on every page; shipment number and total quantity keep the first
// value that was set.
func (r *Record) applyMetadata(m Metadata) {
	r.EDINumber = m.EDINumber
	r.DeliveryNumber = m.DeliveryNumber
	r.InvoiceNumber = m.InvoiceNumber
	r.InvoiceDate = m.InvoiceDate

	if !r.ShipmentNumber.IsSet() {
		r.ShipmentNumber = m.ShipmentNumber
	}
	if !r.TotalQuantity.IsSet() {
		r.TotalQuantity = m.TotalQuantity
	}
}

// hasInvoiceNumber reports whether the record ever opened an invoice.
func (r *Record) hasInvoiceNumber() bool {
	return r.InvoiceNumber.NonEmpty()
}
