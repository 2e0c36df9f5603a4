// Package cart holds a customer's in-progress cart: one line per (item,
// quantity) pairing, owned by the customer until the order is finalized.
package cart

import "storefront/internal/catalog"

type Line struct {
	CustomerID string
	ItemID     int64
	Quantity   int
	Item       catalog.Item
}

// Snapshot is a customer's cart materialized at one point in time, with
// every line's item resolved.
type Snapshot []Line

// Units counts individual units across all lines.
func (s Snapshot) Units() int {
	n := 0
	for _, l := range s {
		n += l.Quantity
	}
	return n
}

// ExpandIDs flattens the snapshot into one item id per unit, i.e. an item id
// repeated quantity times. This is the form carried through the checkout
// page and compared again on confirmation.
func (s Snapshot) ExpandIDs() []int64 {
	out := make([]int64, 0, s.Units())
	for _, l := range s {
		for i := 0; i < l.Quantity; i++ {
			out = append(out, l.ItemID)
		}
	}
	return out
}

// HasInactive reports whether any line's item is no longer purchasable.
func (s Snapshot) HasInactive() bool {
	for _, l := range s {
		if !l.Item.Active {
			return true
		}
	}
	return false
}

// SameItems compares the unit-expanded id set rendered on the checkout page
// against the set submitted on confirmation: set difference both ways, so
// the match is order-insensitive but duplicate-count-sensitive.
func SameItems(rendered, submitted []int64) bool {
	return len(diff(rendered, submitted)) == 0 && len(diff(submitted, rendered)) == 0
}

// diff returns the elements of a not covered by b, respecting multiplicity.
func diff(a, b []int64) []int64 {
	counts := make(map[int64]int, len(b))
	for _, id := range b {
		counts[id]++
	}
	var out []int64
	for _, id := range a {
		if counts[id] > 0 {
			counts[id]--
			continue
		}
		out = append(out, id)
	}
	return out
}
