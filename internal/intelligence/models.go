package intelligence

import (
	"context"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// Method records how a classification was reached
type Method string

const (
	MethodPinned   Method = "pinned"
	MethodFilename Method = "filename"
	MethodContent  Method = "content"
	MethodFallback Method = "fallback"
)

// Classification is the result of classifying one document
type Classification struct {
	Type   document.Type `json:"type"`
	Method Method        `json:"method"`

	// Content scores, zero when the filename decided
	InvoiceScore int `json:"invoice_score"`
	PackingScore int `json:"packing_score"`

	Reasons []ClassificationReason `json:"reasons,omitempty"`
}

// ClassificationReason explains one piece of evidence behind a classification
type ClassificationReason struct {
	Rule     string        `json:"rule"`     // Name of the rule that triggered
	Category string        `json:"category"` // filename, keyword, or fallback
	Evidence string        `json:"evidence"` // What was matched
	Type     document.Type `json:"type"`     // Family the evidence counts towards
}

// Matched returns the evidence strings of every reason, in order.
func (c Classification) Matched() []string {
	out := make([]string, 0, len(c.Reasons))
	for _, r := range c.Reasons {
		out = append(out, r.Evidence)
	}
	return out
}

// FirstPageFunc returns the text of a document's first page.
type FirstPageFunc func(ctx context.Context) (string, error)
