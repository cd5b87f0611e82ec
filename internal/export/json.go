// Package export writes parse results for downstream use: an Excel workbook
// with typed columns and summary tables, or indented JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes v as indented JSON. Unset fields are encoded as null.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}
