// Package packinglist extracts packing list items. Items are collected from
// every page with that page's header stamped on, then grouped by EAN and
// batch with quantities summed.
package packinglist

import (
	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Metadata is the header information found on one page.
type Metadata struct {
	EDINumber      document.Field `json:"edi_number"`
	OrderNumber    document.Field `json:"order_number"`
	ShipmentNumber document.Field `json:"shipment_number"`
}

// Item is one packing list line plus the metadata of the page it came from.
type Item struct {
	HSCode         string `json:"hs_code"`
	Brand          string `json:"brand"`
	SKU            string `json:"sku"`
	Description    string `json:"description"`
	Quantity       string `json:"quantity"`
	EAN            string `json:"ean"`
	Batch          string `json:"batch"`
	MfgDate        string `json:"mfg_date"`
	ExpDate        string `json:"exp_date"`
	Origin         string `json:"country_of_origin"`
	DangerousGoods string `json:"dangerous_goods"`

	EDINumber      document.Field `json:"edi_number"`
	OrderNumber    document.Field `json:"order_number"`
	ShipmentNumber document.Field `json:"shipment_number"`
}

// Key is the grouping identity of an item.
type Key struct {
	EAN   string
	Batch string
}

// Key returns the (EAN, batch) identity.
func (it Item) Key() Key {
	return Key{EAN: it.EAN, Batch: it.Batch}
}

// stamp copies page metadata onto the item.
func (it *Item) stamp(m Metadata) {
	it.EDINumber = m.EDINumber
	it.OrderNumber = m.OrderNumber
	it.ShipmentNumber = m.ShipmentNumber
}
