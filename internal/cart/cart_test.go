package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/catalog"
)

func line(itemID int64, qty int, price string, active bool) Line {
	return Line{
		ItemID:   itemID,
		Quantity: qty,
		Item: catalog.Item{
			ID:     itemID,
			Price:  decimal.RequireFromString(price),
			Active: active,
		},
	}
}

func TestSnapshotExpandIDs(t *testing.T) {
	snap := Snapshot{line(1, 2, "10", true), line(7, 1, "5", true)}
	assert.Equal(t, []int64{1, 1, 7}, snap.ExpandIDs())
	assert.Equal(t, 3, snap.Units())
}

func TestSnapshotHasInactive(t *testing.T) {
	assert.False(t, Snapshot{line(1, 1, "10", true)}.HasInactive())
	assert.True(t, Snapshot{line(1, 1, "10", true), line(2, 1, "3", false)}.HasInactive())
}

func TestSameItems(t *testing.T) {
	tests := []struct {
		name      string
		rendered  []int64
		submitted []int64
		want      bool
	}{
		{"identical", []int64{1, 2, 3}, []int64{1, 2, 3}, true},
		{"reordered", []int64{3, 1, 2}, []int64{1, 2, 3}, true},
		{"duplicates reordered", []int64{1, 1, 2}, []int64{2, 1, 1}, true},
		{"mismatched multiplicities", []int64{1, 1, 2}, []int64{1, 2, 2}, false},
		{"missing element", []int64{1, 2}, []int64{1}, false},
		{"extra element", []int64{1}, []int64{1, 2}, false},
		{"both empty", nil, nil, true},
		{"one empty", []int64{1}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameItems(tt.rendered, tt.submitted))
		})
	}
}
