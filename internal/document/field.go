package document

import (
	"encoding/json"
)

// Field is a single extracted value. The zero Field is unset, which is the
// normal result when a pattern or table cell was not found on a page.
type Field struct {
	value string
	set   bool
}

// Set returns a Field holding s.
func Set(s string) Field {
	return Field{value: s, set: true}
}

// FromCell returns a Field for a table cell; absent cells are unset.
func FromCell(c Cell) Field {
	if c == nil {
		return Field{}
	}
	return Set(*c)
}

// Get returns the value and whether it was set.
func (f Field) Get() (string, bool) {
	return f.value, f.set
}

// IsSet reports whether the field holds a value.
func (f Field) IsSet() bool {
	return f.set
}

// NonEmpty reports whether the field is set to a non-empty string.
func (f Field) NonEmpty() bool {
	return f.set && f.value != ""
}

// String returns the value, or "" when unset.
func (f Field) String() string {
	return f.value
}

// Or returns the value, or def when unset.
func (f Field) Or(def string) string {
	if !f.set {
		return def
	}
	return f.value
}

// MarshalJSON encodes an unset field as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as unset.
func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Set(s)
	return nil
}
