package packinglist

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Group merges items sharing an (EAN, batch) key. The first occurrence of a
// key is kept and later quantities are added to it; the output is in
// first-seen key order. A quantity that does not parse leaves the kept
// quantity unchanged. Group does not modify its input.
func Group(items []Item, log zerolog.Logger) []Item {
	order := make([]Key, 0, len(items))
	kept := make(map[Key]*Item, len(items))

	for _, it := range items {
		key := it.Key()
		existing, ok := kept[key]
		if !ok {
			cp := it
			kept[key] = &cp
			order = append(order, key)
			continue
		}

		sum, err := addQuantities(existing.Quantity, it.Quantity)
		if err != nil {
			log.Warn().
				Err(err).
				Str("ean", it.EAN).
				Str("batch", it.Batch).
				Str("quantity", it.Quantity).
				Msg("cannot sum quantity, keeping existing value")
			continue
		}
		existing.Quantity = sum
	}

	out := make([]Item, 0, len(order))
	for _, key := range order {
		out = append(out, *kept[key])
	}
	return out
}

func addQuantities(a, b string) (string, error) {
	x, err := parseQuantity(a)
	if err != nil {
		return "", err
	}
	y, err := parseQuantity(b)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(x + y), nil
}

func parseQuantity(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
