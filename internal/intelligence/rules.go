package intelligence

import (
	"strings"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/patterns"
)

// ClassificationRule ties a keyword set to the family it identifies
type ClassificationRule struct {
	Name         string
	DocumentType document.Type
	Keywords     patterns.Keywords
}

// getDefaultRules returns the rules in evaluation order. On a filename the
// first matching rule wins; on content the invoice rule wins ties.
func getDefaultRules() []ClassificationRule {
	return []ClassificationRule{
		{
			Name:         "invoice_keywords",
			DocumentType: document.TypeInvoice,
			Keywords:     patterns.InvoiceKeywords(),
		},
		{
			Name:         "packing_list_keywords",
			DocumentType: document.TypePackingList,
			Keywords:     patterns.PackingListKeywords(),
		},
	}
}

// matchFilename returns the first filename keyword contained in name.
// name must already be lower-cased.
func (r ClassificationRule) matchFilename(name string) (string, bool) {
	for _, kw := range r.Keywords.Filename {
		if strings.Contains(name, kw) {
			return kw, true
		}
	}
	return "", false
}

// scoreContent counts the content keywords present in text, which must
// already be upper-cased. Each keyword counts once.
func (r ClassificationRule) scoreContent(text string) (int, []ClassificationReason) {
	score := 0
	var reasons []ClassificationReason
	for _, kw := range r.Keywords.Content {
		if !strings.Contains(text, kw) {
			continue
		}
		score++
		reasons = append(reasons, ClassificationReason{
			Rule:     r.Name,
			Category: "keyword",
			Evidence: kw,
			Type:     r.DocumentType,
		})
	}
	return score, reasons
}
