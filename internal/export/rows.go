package export

import (
	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/packinglist"
)

// InvoiceHeaders are the column headers of the Invoice sheet.
var InvoiceHeaders = []string{
	"EDI", "DeliveryNo", "InvoiceNo", "InvoiceDate",
	"ShipmentNo", "TotalQuantity",
	"EAN", "Ref", "Ref00", "Description", "Quantity", "UnitPrice",
	"TotalPriceUsd", "Country",
}

// InvoiceSummaryHeaders head the per-invoice summary table.
var InvoiceSummaryHeaders = []string{"ShipmentNo", "InvoiceNo", "InvoiceDate", "TotalQuantity", "TotalPriceUsd"}

// PackingHeaders are the column headers of the Packing_List sheet.
var PackingHeaders = []string{
	"EDI", "DeliveryNo", "ShipmentNo", "Brand", "EAN", "REF", "REF_00",
	"Description", "Qty", "Batch", "MfgDate", "ExpDate", "Dg",
}

// PackingSummaryHeaders head the per-shipment summary table.
var PackingSummaryHeaders = []string{"ShipmentNo", "TotalQty"}

// TotalLabel marks the closing row of a summary table.
const TotalLabel = "Total"

// InvoiceRows maps every line item of every record to one typed row. Record
// metadata is repeated on each row.
func InvoiceRows(records []invoice.Record) [][]any {
	var rows [][]any
	for _, rec := range records {
		shipment := TrimLeadingZeros(rec.ShipmentNumber.String())
		date := ReformatDate(rec.InvoiceDate.String())

		for _, it := range rec.Items {
			rows = append(rows, []any{
				textCell(rec.EDINumber),
				textCell(rec.DeliveryNumber),
				textCell(rec.InvoiceNumber),
				emptyAsNil(date),
				emptyAsNil(shipment),
				intField(rec.TotalQuantity),
				intCell(it.EAN),
				textCell(it.ProductCode),
				emptyAsNil(BaseReference(it.ProductCode.String())),
				it.Description,
				intField(it.Quantity),
				floatField(it.UnitPrice),
				floatField(it.ExtendedPrice),
				textCell(it.Country),
			})
		}
	}
	return rows
}

// InvoiceSummary is one row of the invoice summary table.
type InvoiceSummary struct {
	ShipmentNo    string
	InvoiceNo     string
	InvoiceDate   string
	TotalQuantity int64
	TotalPrice    float64
}

// SummarizeInvoices totals item quantities and extended prices per record.
// Values that do not parse count as zero.
func SummarizeInvoices(records []invoice.Record) []InvoiceSummary {
	out := make([]InvoiceSummary, 0, len(records))
	for _, rec := range records {
		s := InvoiceSummary{
			ShipmentNo:  TrimLeadingZeros(rec.ShipmentNumber.String()),
			InvoiceNo:   rec.InvoiceNumber.String(),
			InvoiceDate: ReformatDate(rec.InvoiceDate.String()),
		}
		for _, it := range rec.Items {
			s.TotalQuantity += quantity(it.Quantity.String())
			s.TotalPrice += amount(it.ExtendedPrice.String())
		}
		out = append(out, s)
	}
	return out
}

// PackingRows maps packing list items to typed rows.
func PackingRows(items []packinglist.Item) [][]any {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			textCell(it.EDINumber),
			emptyAsNil(TrimPrefixZeros(it.OrderNumber.String(), 2)),
			emptyAsNil(TrimPrefixZeros(it.ShipmentNumber.String(), 4)),
			it.Brand,
			intCell(it.EAN),
			it.SKU,
			emptyAsNil(BaseReference(it.SKU)),
			it.Description,
			intCell(it.Quantity),
			it.Batch,
			emptyAsNil(ReformatDate(it.MfgDate)),
			emptyAsNil(ReformatDate(it.ExpDate)),
			it.DangerousGoods,
		})
	}
	return rows
}

// ShipmentSummary is one row of the packing list summary table.
type ShipmentSummary struct {
	ShipmentNo    string
	TotalQuantity int64
}

// SummarizeShipments totals item quantities per shipment in first-seen
// order. Items without a shipment number are left out.
func SummarizeShipments(items []packinglist.Item) []ShipmentSummary {
	var out []ShipmentSummary
	index := make(map[string]int)
	for _, it := range items {
		if !it.ShipmentNumber.NonEmpty() {
			continue
		}
		shipment := TrimPrefixZeros(it.ShipmentNumber.String(), 4)
		i, ok := index[shipment]
		if !ok {
			i = len(out)
			index[shipment] = i
			out = append(out, ShipmentSummary{ShipmentNo: shipment})
		}
		out[i].TotalQuantity += quantity(it.Quantity)
	}
	return out
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
