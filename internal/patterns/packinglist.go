package patterns

import "regexp"

// PackingList is the pattern set for packing lists
type PackingList struct {
	ediNumber      *regexp.Regexp
	orderNumber    *regexp.Regexp
	shipmentNumber *regexp.Regexp
	itemLine       *regexp.Regexp
	itemFlexible   *regexp.Regexp
}

// NewPackingList compiles the packing list pattern set.
func NewPackingList() *PackingList {
	return &PackingList{
		ediNumber:      regexp.MustCompile(`(?i)Your\s+Reference\s+([A-Z0-9]+)`),
		orderNumber:    regexp.MustCompile(`(?i)Order\s+Number\s*:\s*(\d+)`),
		shipmentNumber: regexp.MustCompile(`(?i)Ship\s+Group\s+ID\s*:\s*(\d+)`),
		// hs code, brand, sku, description, qty, ean, batch, mfg, exp, coo, dg
		itemLine: regexp.MustCompile(`(?m)^(\d+)\s+(\w+)\s+(\S+)\s+(.+?)\s+([\d,]+)\s+(\d{13})\s+(\S+)\s+(\d{2}-\d{2}-\d{4})\s+(\d{2}-\d{2}-\d{4})\s+([A-Z]{1,2})\s+([YN])`),
		// same groups, tolerates the dg flag wrapped onto the next line
		itemFlexible: regexp.MustCompile(`(?ms)(\d+)\s+(\w+)\s+(\S+)\s+(.+?)\s+([\d,]+)\s+(\d{13})\s+(\S+)\s+(\d{2}-\d{2}-\d{4})\s+(\d{2}-\d{2}-\d{4})\s+([A-Z]{1,2})\s*\n?([YN])`),
	}
}

// EDINumber finds "Your Reference <alnum>".
func (p *PackingList) EDINumber(text string) (string, bool) {
	return firstGroup(p.ediNumber, text)
}

// OrderNumber finds "Order Number: <digits>".
func (p *PackingList) OrderNumber(text string) (string, bool) {
	return firstGroup(p.orderNumber, text)
}

// ShipmentNumber finds "Ship Group ID: <digits>".
func (p *PackingList) ShipmentNumber(text string) (string, bool) {
	return firstGroup(p.shipmentNumber, text)
}

// ItemLines returns every primary-pattern match in text.
func (p *PackingList) ItemLines(text string) []ItemLine {
	return collectItemLines(p.itemLine, text)
}

// ItemLinesFlexible returns every fallback-pattern match in text.
func (p *PackingList) ItemLinesFlexible(text string) []ItemLine {
	return collectItemLines(p.itemFlexible, text)
}

// ItemLine holds the eleven groups of a packing list item match, in order.
type ItemLine struct {
	HSCode      string
	Brand       string
	SKU         string
	Description string
	Quantity    string
	EAN         string
	Batch       string
	MfgDate     string
	ExpDate     string
	Origin      string
	Dangerous   string
}

func collectItemLines(re *regexp.Regexp, text string) []ItemLine {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	lines := make([]ItemLine, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, ItemLine{
			HSCode:      m[1],
			Brand:       m[2],
			SKU:         m[3],
			Description: m[4],
			Quantity:    m[5],
			EAN:         m[6],
			Batch:       m[7],
			MfgDate:     m[8],
			ExpDate:     m[9],
			Origin:      m[10],
			Dangerous:   m[11],
		})
	}
	return lines
}
