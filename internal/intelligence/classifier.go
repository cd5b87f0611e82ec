// Package intelligence decides which document family a source belongs to,
// first from its file name and then from the text of its first page.
package intelligence

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/logger"
)

// DocumentClassifier performs keyword classification of trade documents.
// It holds no mutable state and is safe for concurrent use.
type DocumentClassifier struct {
	rules  []ClassificationRule
	logger zerolog.Logger
}

// NewDocumentClassifier creates a classifier with the default rules
func NewDocumentClassifier() *DocumentClassifier {
	return NewDocumentClassifierWithLogger(logger.WithComponent("classifier"))
}

// NewDocumentClassifierWithLogger creates a classifier that logs to l
func NewDocumentClassifierWithLogger(l zerolog.Logger) *DocumentClassifier {
	return &DocumentClassifier{
		rules:  getDefaultRules(),
		logger: l,
	}
}

// ClassifyName checks the base file name against the filename keywords.
// Invoice keywords are checked first.
func (dc *DocumentClassifier) ClassifyName(name string) (Classification, bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, rule := range dc.rules {
		if kw, ok := rule.matchFilename(base); ok {
			return Classification{
				Type:   rule.DocumentType,
				Method: MethodFilename,
				Reasons: []ClassificationReason{{
					Rule:     rule.Name,
					Category: "filename",
					Evidence: kw,
					Type:     rule.DocumentType,
				}},
			}, true
		}
	}
	return Classification{}, false
}

// ClassifyContent scores text against both keyword sets. The higher score
// wins and a tie goes to invoice.
func (dc *DocumentClassifier) ClassifyContent(text string) Classification {
	upper := strings.ToUpper(text)

	result := Classification{Type: document.TypeInvoice, Method: MethodContent}
	for _, rule := range dc.rules {
		score, reasons := rule.scoreContent(upper)
		result.Reasons = append(result.Reasons, reasons...)
		switch rule.DocumentType {
		case document.TypeInvoice:
			result.InvoiceScore = score
		case document.TypePackingList:
			result.PackingScore = score
		}
	}

	if result.PackingScore > result.InvoiceScore {
		result.Type = document.TypePackingList
	}
	return result
}

// Classify resolves the family of a document: filename first, then the
// first page content. A nil firstPage or a read failure falls back to
// invoice; classification itself never fails.
func (dc *DocumentClassifier) Classify(ctx context.Context, name string, firstPage FirstPageFunc) Classification {
	if c, ok := dc.ClassifyName(name); ok {
		dc.logger.Debug().
			Str("file", name).
			Str("type", string(c.Type)).
			Strs("matched", c.Matched()).
			Msg("classified by filename")
		return c
	}

	if firstPage == nil {
		return fallback("no first page available")
	}

	text, err := firstPage(ctx)
	if err != nil {
		dc.logger.Warn().Err(err).Str("file", name).Msg("cannot read first page, defaulting to invoice")
		return fallback(err.Error())
	}

	c := dc.ClassifyContent(text)
	dc.logger.Debug().
		Str("file", name).
		Str("type", string(c.Type)).
		Int("invoice_score", c.InvoiceScore).
		Int("packing_score", c.PackingScore).
		Msg("classified by content")
	return c
}

func fallback(evidence string) Classification {
	return Classification{
		Type:   document.TypeInvoice,
		Method: MethodFallback,
		Reasons: []ClassificationReason{{
			Rule:     "default",
			Category: "fallback",
			Evidence: evidence,
			Type:     document.TypeInvoice,
		}},
	}
}

// Pinned returns the classification for a caller supplied type.
func Pinned(t document.Type) Classification {
	return Classification{Type: t, Method: MethodPinned}
}
