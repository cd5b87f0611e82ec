package document

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable is returned when a page source cannot be opened or iterated.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrUnknownDocumentType is returned for a document type outside the known families.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrBatchTypeMismatch is returned when a batch call supplies a type list whose
	// length matches neither one nor the number of sources.
	ErrBatchTypeMismatch = errors.New("document type list must match source list length")

	// ErrNoPages is returned when a source contains no pages at all.
	ErrNoPages = errors.New("source has no pages")
)

// SourceError wraps failures of the page source with the operation, path and
// page that failed.
type SourceError struct {
	// Op is the operation that failed (e.g. "open", "read_page").
	Op string

	// Path identifies the source.
	Path string

	// Page is the 1-based page number, or 0 when the failure is not page specific.
	Page int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("source %s: %s page %d: %v", e.Path, e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("source %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes every SourceError match ErrSourceUnreadable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnreadable
}

// WrapSourceError wraps err as a SourceError unless it already is one.
func WrapSourceError(op, path string, page int, err error) error {
	if err == nil {
		return nil
	}
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return err
	}
	return &SourceError{Op: op, Path: path, Page: page, Err: err}
}
