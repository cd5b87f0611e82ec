// Package patterns holds the regular expressions and keyword sets used to
// recognise trade documents. Every pattern set is an immutable value built
// once by its constructor and shared by reference; regexp.Regexp is safe for
// concurrent use, so one set can serve parallel batch callers.
package patterns

import "regexp"

// TermsOfSaleMarker ends the invoice being accumulated when it appears on a page.
const TermsOfSaleMarker = "GENERAL TERMS OF SALE"

// Invoice is the pattern set for commercial invoices
type Invoice struct {
	eanLine        *regexp.Regexp
	itemStage1     *regexp.Regexp
	itemStage2     *regexp.Regexp
	shipmentNumber *regexp.Regexp
	totalQuantity  *regexp.Regexp
	marker         string
}

// NewInvoice compiles the invoice pattern set.
func NewInvoice() *Invoice {
	return &Invoice{
		// 13 leading digits: a candidate EAN line
		eanLine: regexp.MustCompile(`^\d{13}`),
		// EAN, description, weight, unit indicator
		itemStage1: regexp.MustCompile(`^(\d{13})\s+(.+?)\s+([\d,\.]+)\s+G`),
		// quantity, unit price, extended price, category code, country, product code
		itemStage2:     regexp.MustCompile(`G\s+(\d+[\d,]*)\s+([\d,\.]+)\s+([\d,\.]+)\s+(\d+)\s+([A-Z]{2})\s+(\S+)$`),
		shipmentNumber: regexp.MustCompile(`Shipment Number: (\d+)`),
		totalQuantity:  regexp.MustCompile(`TOTAL QUANTITY (\d+)`),
		marker:         TermsOfSaleMarker,
	}
}

// IsCandidateLine reports whether a trimmed line starts with 13 digits.
func (p *Invoice) IsCandidateLine(line string) bool {
	return p.eanLine.MatchString(line)
}

// Stage1 matches the leading part of an item line.
func (p *Invoice) Stage1(line string) (StageOne, bool) {
	m := p.itemStage1.FindStringSubmatch(line)
	if m == nil {
		return StageOne{}, false
	}
	return StageOne{EAN: m[1], Description: m[2], Weight: m[3]}, true
}

// Stage2 matches the trailing part of an item line.
func (p *Invoice) Stage2(line string) (StageTwo, bool) {
	m := p.itemStage2.FindStringSubmatch(line)
	if m == nil {
		return StageTwo{}, false
	}
	return StageTwo{
		Quantity:      m[1],
		UnitPrice:     m[2],
		ExtendedPrice: m[3],
		CategoryCode:  m[4],
		Country:       m[5],
		ProductCode:   m[6],
	}, true
}

// ShipmentNumber finds "Shipment Number: <digits>" in text.
func (p *Invoice) ShipmentNumber(text string) (string, bool) {
	return firstGroup(p.shipmentNumber, text)
}

// TotalQuantity finds "TOTAL QUANTITY <digits>" in text.
func (p *Invoice) TotalQuantity(text string) (string, bool) {
	return firstGroup(p.totalQuantity, text)
}

// Marker returns the page-boundary literal.
func (p *Invoice) Marker() string {
	return p.marker
}

// StageOne holds the groups captured by the first item pass.
type StageOne struct {
	EAN         string
	Description string
	Weight      string
}

// StageTwo holds the groups captured by the second item pass.
type StageTwo struct {
	Quantity      string
	UnitPrice     string
	ExtendedPrice string
	CategoryCode  string
	Country       string
	ProductCode   string
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
