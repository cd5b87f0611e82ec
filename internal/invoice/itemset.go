package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// DuplicatePolicy decides what happens when an EAN arrives twice for the same invoice.
type DuplicatePolicy string

const (
	// DuplicateOverwrite replaces the earlier line with the later one.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
	// DuplicateSum adds quantity and extended price into the earlier line.
	DuplicateSum DuplicatePolicy = "sum"
)

// ParseDuplicatePolicy converts a configuration value into a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateOverwrite:
		return DuplicateOverwrite, nil
	case DuplicateSum:
		return DuplicateSum, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (must be overwrite or sum)", s)
	}
}

// ItemSet is an EAN-keyed set of line items that remembers first-seen order.
type ItemSet struct {
	policy     DuplicatePolicy
	order      []string
	items      map[string]LineItem
	collisions int
}

// NewItemSet creates an empty set using policy.
func NewItemSet(policy DuplicatePolicy) *ItemSet {
	if policy == "" {
		policy = DuplicateOverwrite
	}
	return &ItemSet{
		policy: policy,
		items:  make(map[string]LineItem),
	}
}

// Put adds item, applying the duplicate policy when the EAN is already
// present. It reports whether the EAN collided.
func (s *ItemSet) Put(item LineItem) bool {
	existing, ok := s.items[item.EAN]
	if !ok {
		s.order = append(s.order, item.EAN)
		s.items[item.EAN] = item
		return false
	}

	s.collisions++
	switch s.policy {
	case DuplicateSum:
		existing.Quantity = sumField(existing.Quantity, item.Quantity)
		existing.ExtendedPrice = sumField(existing.ExtendedPrice, item.ExtendedPrice)
		s.items[item.EAN] = existing
	default:
		s.items[item.EAN] = item
	}
	return true
}

// Merge puts every item of other into s, in other's order.
func (s *ItemSet) Merge(other *ItemSet) int {
	if other == nil {
		return 0
	}
	collided := 0
	for _, it := range other.Items() {
		if s.Put(it) {
			collided++
		}
	}
	return collided
}

// Get returns the item stored for ean.
func (s *ItemSet) Get(ean string) (LineItem, bool) {
	it, ok := s.items[ean]
	return it, ok
}

// Len returns the number of distinct EANs.
func (s *ItemSet) Len() int {
	return len(s.order)
}

// Collisions returns how many puts hit an existing EAN.
func (s *ItemSet) Collisions() int {
	return s.collisions
}

// Items returns the items in first-seen order.
func (s *ItemSet) Items() []LineItem {
	out := make([]LineItem, 0, len(s.order))
	for _, ean := range s.order {
		out = append(out, s.items[ean])
	}
	return out
}

// sumField adds two numeric fields that may carry thousands separators. If
// either side does not parse, the existing value is kept.
func sumField(existing, add document.Field) document.Field {
	if !add.IsSet() {
		return existing
	}
	if !existing.IsSet() {
		return add
	}
	a, errA := parseNumber(existing.String())
	b, errB := parseNumber(add.String())
	if errA != nil || errB != nil {
		return existing
	}
	return document.Set(formatNumber(a+b, existing.String(), add.String()))
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

// formatNumber keeps integers integral and otherwise uses the widest number
// of decimals found in the inputs.
func formatNumber(v float64, inputs ...string) string {
	decimals := 0
	for _, in := range inputs {
		if i := strings.LastIndex(in, "."); i >= 0 {
			if d := len(in) - i - 1; d > decimals {
				decimals = d
			}
		}
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
