package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/intelligence"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
)

func invoicePages(number, ean string) Pages {
	s := document.Str
	tables := []document.Table{
		{{s("a"), s("b")}, {s("c"), s("d")}, {s("EDI"), s("EDI-" + number)}},
		{{s("a")}, {s("b")}, {s("c")}, {s("Delivery"), s("DLV-" + number)}},
		{{s("Invoice"), s(number), s("Date"), s("05.11.2024")}},
	}
	return Pages{
		{Text: "COMMERCIAL INVOICE\nShipment Number: 0042\n" +
			ean + " HAND CREAM 0,055 G 12 2.50 30.00 3304 DE L1", Tables: tables},
		{Text: "GENERAL TERMS OF SALE"},
	}
}

func packingPages() Pages {
	return Pages{
		{Text: "PACKING LIST\nYour Reference EDI7\nShip Group ID: 0000123\n" +
			"33049900 ACME ABC1234 Night cream 1,008 4006381333931 B001 01-02-2024 01-02-2027 FR N\n" +
			"33049900 ACME ABC1234 Night cream 42 4006381333931 B001 01-02-2024 01-02-2027 FR N\n"},
	}
}

// fakeOpener serves in-memory sources and fails on paths it does not know.
type fakeOpener struct {
	sources map[string]Source
	opened  []string
	closed  int
}

func (f *fakeOpener) Open(path string) (Source, error) {
	f.opened = append(f.opened, path)
	src, ok := f.sources[path]
	if !ok {
		return nil, errors.New("malformed PDF header")
	}
	return &closeCounter{Source: src, closed: &f.closed}, nil
}

type closeCounter struct {
	Source
	closed *int
}

func (c *closeCounter) Close() error {
	*c.closed++
	return c.Source.Close()
}

// failingPage returns an error for one page.
type failingPage struct {
	Pages
	fail int
}

func (f failingPage) Page(ctx context.Context, n int) (document.Page, error) {
	if n == f.fail {
		return document.Page{}, errors.New("corrupt content stream")
	}
	return f.Pages.Page(ctx, n)
}

func newTestParser(o Opener, opts ...Option) *Parser {
	return New(o, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func TestParseDocument_Invoice(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"in/2024 CI.pdf": invoicePages("INV-1", "4006381333931")}}
	p := newTestParser(o)

	res, err := p.ParseDocument(context.Background(), "in/2024 CI.pdf", document.TypeAuto)
	require.NoError(t, err)

	assert.Equal(t, "invoice", res.DocumentType)
	assert.Equal(t, "in/2024 CI.pdf", res.FilePath)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "INV-1", res.Invoices[0].InvoiceNumber.String())
	assert.Equal(t, "0042", res.Invoices[0].ShipmentNumber.String())
	require.NotNil(t, res.Classification)
	assert.Equal(t, intelligence.MethodFilename, res.Classification.Method)
	assert.Equal(t, 1, o.closed)
}

func TestParseDocument_ClassifiesByContent(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"shipment.pdf": packingPages()}}
	p := newTestParser(o)

	res, err := p.ParseDocument(context.Background(), "shipment.pdf", document.TypeAuto)
	require.NoError(t, err)
	assert.Equal(t, "packing_list", res.DocumentType)
	assert.Equal(t, intelligence.MethodContent, res.Classification.Method)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "1050", res.PackingItems[0].Quantity)
	assert.Equal(t, "EDI7", res.PackingItems[0].EDINumber.String())
}

func TestParseDocument_PinnedTypeSkipsClassification(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"2024 CI.pdf": packingPages()}}
	p := newTestParser(o)

	res, err := p.ParseDocument(context.Background(), "2024 CI.pdf", document.TypePackingList)
	require.NoError(t, err)
	assert.Equal(t, "packing_list", res.DocumentType)
	assert.Equal(t, intelligence.MethodPinned, res.Classification.Method)
}

func TestParseDocument_UnknownTypeRejectedBeforeOpen(t *testing.T) {
	o := &fakeOpener{}
	p := newTestParser(o)

	_, err := p.ParseDocument(context.Background(), "x.pdf", document.Type("receipt"))
	assert.ErrorIs(t, err, document.ErrUnknownDocumentType)
	assert.Empty(t, o.opened)
}

func TestParseDocument_SourceErrors(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{
		"bad.pdf":   failingPage{Pages: invoicePages("INV-1", "4006381333931"), fail: 2},
	}}
	p := newTestParser(o)

	_, err := p.ParseDocument(context.Background(), "missing.pdf", document.TypeInvoice)
	assert.ErrorIs(t, err, document.ErrSourceUnreadable)

	_, err = p.ParseDocument(context.Background(), "bad.pdf", document.TypeInvoice)
	var srcErr *document.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 2, srcErr.Page)
	assert.Equal(t, "read_page", srcErr.Op)

	// every opened source was closed, including the failing one
	assert.Equal(t, 1, o.closed)
}

func TestParseDocument_Cancelled(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"2024 CI.pdf": invoicePages("INV-1", "4006381333931")}}
	p := newTestParser(o)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ParseDocument(ctx, "2024 CI.pdf", document.TypeInvoice)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, o.closed)
}

func TestParseBatch_PartialFailure(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{
		"a_ci.pdf": invoicePages("INV-1", "4006381333931"),
		"c_pl.pdf": packingPages(),
	}}
	p := newTestParser(o)

	batch, err := p.ParseBatch(context.Background(), []string{"a_ci.pdf", "b_corrupt.pdf", "c_pl.pdf"})
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)

	_, err = uuid.Parse(batch.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)

	first, second, third := batch.Results[0], batch.Results[1], batch.Results[2]
	assert.Equal(t, "invoice", first.DocumentType)
	assert.Equal(t, 1, first.Count)

	assert.True(t, second.Failed())
	assert.Equal(t, "error", second.DocumentType)
	assert.Equal(t, "b_corrupt.pdf", second.FilePath)
	assert.Equal(t, 0, second.Count)
	assert.True(t, strings.Contains(second.Error, "malformed PDF header"))
	assert.Nil(t, second.Invoices)
	assert.Nil(t, second.PackingItems)

	assert.Equal(t, "packing_list", third.DocumentType)
	assert.Equal(t, 1, third.Count)

	assert.Len(t, batch.Invoices(), 1)
	assert.Len(t, batch.PackingItems(), 1)
}

func TestParseBatch_Types(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{
		"a.pdf": packingPages(),
		"b.pdf": packingPages(),
	}}
	p := newTestParser(o)
	paths := []string{"a.pdf", "b.pdf"}

	batch, err := p.ParseBatch(context.Background(), paths, document.TypePackingList)
	require.NoError(t, err)
	for _, r := range batch.Results {
		assert.Equal(t, "packing_list", r.DocumentType)
	}

	batch, err = p.ParseBatch(context.Background(), paths, document.TypeInvoice, document.TypePackingList)
	require.NoError(t, err)
	assert.Equal(t, "invoice", batch.Results[0].DocumentType)
	assert.Equal(t, 0, batch.Results[0].Count)
	assert.Equal(t, "packing_list", batch.Results[1].DocumentType)
}

func TestParseBatch_CallerErrors(t *testing.T) {
	o := &fakeOpener{}
	p := newTestParser(o)
	paths := []string{"a.pdf", "b.pdf", "c.pdf"}

	_, err := p.ParseBatch(context.Background(), paths, document.TypeInvoice, document.TypeInvoice)
	assert.ErrorIs(t, err, document.ErrBatchTypeMismatch)

	_, err = p.ParseBatch(context.Background(), paths, document.TypeInvoice, "receipt", document.TypeInvoice)
	assert.ErrorIs(t, err, document.ErrUnknownDocumentType)

	assert.Empty(t, o.opened, "rejected batches must not open any source")
}

func TestParse_DuplicatePolicyOption(t *testing.T) {
	pages := invoicePages("INV-1", "4006381333931")
	pages = Pages{pages[0], pages[0], pages[1]}
	o := &fakeOpener{sources: map[string]Source{"2024 CI.pdf": pages}}

	res, err := newTestParser(o, WithDuplicatePolicy(invoice.DuplicateSum)).
		ParseDocument(context.Background(), "2024 CI.pdf", document.TypeAuto)
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "24", res.Invoices[0].Items[0].Quantity.String())
	assert.Equal(t, 1, res.Invoices[0].DuplicateEANs)
}

func TestClassify(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"shipment.pdf": packingPages()}}
	p := newTestParser(o)

	c := p.Classify(context.Background(), "2024 CI.pdf")
	assert.Equal(t, document.TypeInvoice, c.Type)
	assert.Empty(t, o.opened)

	c = p.Classify(context.Background(), "shipment.pdf")
	assert.Equal(t, document.TypePackingList, c.Type)
	assert.Equal(t, 1, o.closed)

	c = p.Classify(context.Background(), "unreadable.pdf")
	assert.Equal(t, document.TypeInvoice, c.Type)
	assert.Equal(t, intelligence.MethodFallback, c.Method)
}

func TestParseDocument_NoPages(t *testing.T) {
	o := &fakeOpener{sources: map[string]Source{"scan.pdf": Pages{}, "0001 PL.pdf": Pages{}}}
	p := newTestParser(o)

	res, err := p.ParseDocument(context.Background(), "scan.pdf", document.TypeAuto)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, "invoice", res.DocumentType)
	assert.Equal(t, intelligence.MethodFallback, res.Classification.Method)
	assert.Equal(t, 0, res.Pages)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Invoices)

	batch, err := p.ParseBatch(context.Background(), []string{"scan.pdf", "0001 PL.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, "packing_list", batch.Results[1].DocumentType)
	assert.Equal(t, 0, batch.Results[1].Count)
	assert.Equal(t, 3, o.closed)
}

// closeFailing is a source whose Close fails.
type closeFailing struct {
	Pages
}

func (closeFailing) Close() error {
	return errors.New("handle already released")
}

func TestClassify_LogsCloseError(t *testing.T) {
	var buf strings.Builder
	o := OpenerFunc(func(string) (Source, error) {
		return closeFailing{Pages: packingPages()}, nil
	})
	p := New(o, WithLogger(zerolog.New(&buf)))

	c := p.Classify(context.Background(), "shipment.pdf")
	assert.Equal(t, document.TypePackingList, c.Type)
	assert.Contains(t, buf.String(), "failed to close source")
	assert.Contains(t, buf.String(), "handle already released")
	assert.Contains(t, buf.String(), `"file":"shipment.pdf"`)
}

func TestPages(t *testing.T) {
	src := Pages{{Text: "one"}, {Number: 7, Text: "two"}}
	pg, err := src.Page(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Number)

	pg, err = src.Page(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 7, pg.Number)

	_, err = src.Page(context.Background(), 3)
	assert.Error(t, err)
}
