package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/orders"
)

func line(itemID int64, qty int, price string, active bool) cart.Line {
	return cart.Line{
		ItemID:   itemID,
		Quantity: qty,
		Item: catalog.Item{
			ID:     itemID,
			Price:  decimal.RequireFromString(price),
			Active: active,
		},
	}
}

func TestPrice(t *testing.T) {
	snap := cart.Snapshot{line(1, 2, "19.99", true), line(2, 1, "5", true)}

	q, err := Price(snap, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, q.ItemsCost.Equal(decimal.RequireFromString("44.98")), "items cost %s", q.ItemsCost)
	assert.True(t, q.Total.Equal(decimal.RequireFromString("54.98")), "total %s", q.Total)
	assert.Equal(t, orders.ShippingStandard, q.Method)
}

func TestPriceRejectsZeroItemsCost(t *testing.T) {
	_, err := Price(cart.Snapshot{}, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrEmptyCart)

	// free items only still count as an empty cart
	_, err = Price(cart.Snapshot{line(1, 3, "0", true)}, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceRejectsInactiveItems(t *testing.T) {
	snap := cart.Snapshot{line(1, 1, "10", true), line(2, 1, "4", false)}
	_, err := Price(snap, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrInactiveItem)
}

func TestMethodForCost(t *testing.T) {
	tests := []struct {
		cost string
		want orders.ShippingMethod
	}{
		{"0", orders.ShippingPickup},
		{"10", orders.ShippingStandard},
		{"45", orders.ShippingExpress},
		{"10.00", orders.ShippingStandard},
		{"9.99", orders.ShippingOther},
		{"10.5", orders.ShippingOther},
		{"-10", orders.ShippingOther},
		{"1000", orders.ShippingOther},
	}
	for _, tt := range tests {
		t.Run(tt.cost, func(t *testing.T) {
			got := MethodForCost(decimal.RequireFromString(tt.cost))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionByCost(t *testing.T) {
	opt, ok := OptionByCost(decimal.NewFromInt(45))
	require.True(t, ok)
	assert.Equal(t, "express", opt.Code)

	_, ok = OptionByCost(decimal.NewFromInt(7))
	assert.False(t, ok)
}
