package export

import (
	"strconv"
	"strings"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// BaseReference replaces the last two characters of a product code with
// "00", giving the base article reference. Codes shorter than two
// characters are returned unchanged.
func BaseReference(code string) string {
	r := []rune(code)
	if len(r) < 2 {
		return code
	}
	return string(r[:len(r)-2]) + "00"
}

// ReformatDate turns dd.mm.yyyy or dd-mm-yyyy into yyyy-mm-dd, zero padding
// day and month. Anything else is returned unchanged.
func ReformatDate(s string) string {
	var sep string
	switch {
	case strings.Contains(s, "."):
		sep = "."
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return s
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return s
	}
	for _, p := range parts {
		if p == "" || !allDigits(p) {
			return s
		}
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(day) > 2 || len(month) > 2 || len(year) != 4 {
		return s
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

// TrimLeadingZeros strips every leading zero; an all-zero value becomes "0".
func TrimLeadingZeros(s string) string {
	if s == "" {
		return s
	}
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

// TrimPrefixZeros removes exactly n leading zeros when s starts with them.
// A value consisting of nothing but that prefix becomes "0".
func TrimPrefixZeros(s string, n int) string {
	prefix := strings.Repeat("0", n)
	if n <= 0 || !strings.HasPrefix(s, prefix) {
		return s
	}
	if t := s[n:]; t != "" {
		return t
	}
	return "0"
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// intCell types s as an integer cell. Empty strings become empty cells and
// values that do not parse are kept as text.
func intCell(s string) any {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return s
	}
	return n
}

// floatCell is intCell for decimal values.
func floatCell(s string) any {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return s
	}
	return v
}

// textCell maps an unset field to an empty cell.
func textCell(f document.Field) any {
	if !f.IsSet() {
		return nil
	}
	return f.String()
}

func intField(f document.Field) any {
	return intCell(f.String())
}

func floatField(f document.Field) any {
	return floatCell(f.String())
}

// quantity returns the integer value of s, or 0 when it does not parse.
func quantity(s string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// amount returns the decimal value of s, or 0 when it does not parse.
func amount(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
