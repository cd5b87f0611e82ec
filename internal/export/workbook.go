package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/packinglist"
)

const (
	// InvoiceSheet is the sheet holding invoice line items.
	InvoiceSheet = "Invoice"
	// PackingSheet is the sheet holding packing list items.
	PackingSheet = "Packing_List"

	// invoiceSummaryCol is column Q.
	invoiceSummaryCol = 17
	// packingSummaryCol is column O.
	packingSummaryCol = 15

	columnWidth = 15
)

// ErrNothingToExport is returned when neither invoices nor packing items are given.
var ErrNothingToExport = errors.New("at least one of invoices or packing list items is required")

// Option configures an export
type Option func(*options)

type options struct {
	log    zerolog.Logger
	hasLog bool
}

// WithLogger sets the logger that reports written workbooks.
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
	if !o.hasLog {
		o.log = logger.WithComponent("export")
	}
	return o
}

// Workbook builds the export workbook. The Invoice sheet is added when
// there are invoices and the Packing_List sheet when there are items.
func Workbook(invoices []invoice.Record, items []packinglist.Item) (*excelize.File, error) {
	if len(invoices) == 0 && len(items) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	if len(invoices) > 0 {
		if err := writeInvoiceSheet(f, invoices); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("invoice sheet: %w", err)
		}
	}
	if len(items) > 0 {
		if err := writePackingSheet(f, items); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("packing list sheet: %w", err)
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX writes the export workbook to w.
func WriteXLSX(w io.Writer, invoices []invoice.Record, items []packinglist.Item, opts ...Option) error {
	o := buildOptions(opts)
	start := time.Now()

	f, err := Workbook(invoices, items)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	o.log.Info().
		Int("invoices", len(invoices)).
		Int("packing_items", len(items)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("workbook written")
	return nil
}

// SaveXLSX writes the export workbook to path.
func SaveXLSX(path string, invoices []invoice.Record, items []packinglist.Item, opts ...Option) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := WriteXLSX(out, invoices, items, opts...); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func writeInvoiceSheet(f *excelize.File, records []invoice.Record) error {
	if _, err := f.NewSheet(InvoiceSheet); err != nil {
		return err
	}
	if err := writeTable(f, InvoiceSheet, 1, InvoiceHeaders, InvoiceRows(records)); err != nil {
		return err
	}

	summaries := SummarizeInvoices(records)
	rows := make([][]any, 0, len(summaries)+1)
	var qty int64
	var price float64
	for _, s := range summaries {
		rows = append(rows, []any{emptyAsNil(s.ShipmentNo), emptyAsNil(s.InvoiceNo), emptyAsNil(s.InvoiceDate), s.TotalQuantity, s.TotalPrice})
		qty += s.TotalQuantity
		price += s.TotalPrice
	}
	rows = append(rows, []any{TotalLabel, nil, nil, qty, price})
	if err := writeTable(f, InvoiceSheet, invoiceSummaryCol, InvoiceSummaryHeaders, rows); err != nil {
		return err
	}

	return setWidths(f, InvoiceSheet, 1, len(InvoiceHeaders), invoiceSummaryCol, len(InvoiceSummaryHeaders))
}

func writePackingSheet(f *excelize.File, items []packinglist.Item) error {
	if _, err := f.NewSheet(PackingSheet); err != nil {
		return err
	}
	if err := writeTable(f, PackingSheet, 1, PackingHeaders, PackingRows(items)); err != nil {
		return err
	}

	summaries := SummarizeShipments(items)
	rows := make([][]any, 0, len(summaries)+1)
	var total int64
	for _, s := range summaries {
		rows = append(rows, []any{s.ShipmentNo, s.TotalQuantity})
		total += s.TotalQuantity
	}
	rows = append(rows, []any{TotalLabel, total})
	if err := writeTable(f, PackingSheet, packingSummaryCol, PackingSummaryHeaders, rows); err != nil {
		return err
	}

	return setWidths(f, PackingSheet, 1, len(PackingHeaders), packingSummaryCol, len(PackingSummaryHeaders))
}

// writeTable writes headers into row 1 and rows below, starting at column col.
func writeTable(f *excelize.File, sheet string, col int, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+i, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+c, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// setWidths widens the columns of the two tables on a sheet; ranges are
// start column and column count pairs.
func setWidths(f *excelize.File, sheet string, ranges ...int) error {
	for i := 0; i+1 < len(ranges); i += 2 {
		first, err := excelize.ColumnNumberToName(ranges[i])
		if err != nil {
			return err
		}
		last, err := excelize.ColumnNumberToName(ranges[i] + ranges[i+1] - 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, first, last, columnWidth); err != nil {
			return err
		}
	}
	return nil
}
