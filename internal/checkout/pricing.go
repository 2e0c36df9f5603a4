// Package checkout prices a cart and turns it into a placed order.
package checkout

import (
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/orders"
)

var (
	ErrEmptyCart    = errors.New("cart no longer has items")
	ErrInactiveItem = errors.New("some items in cart are no longer available")
)

// DefaultShippingCost is the cost preselected on the checkout page.
var DefaultShippingCost = decimal.NewFromInt(10)

// ShippingOption is an explicit shipping choice offered on the checkout
// form. The costs double as the legacy cost→method mapping below.
type ShippingOption struct {
	Code  string
	Cost  decimal.Decimal
	Label string
}

func ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{Code: "pickup", Cost: decimal.NewFromInt(0), Label: "Store pickup"},
		{Code: "standard", Cost: decimal.NewFromInt(10), Label: "Standard shipping"},
		{Code: "express", Cost: decimal.NewFromInt(45), Label: "Express shipping"},
	}
}

// OptionByCost resolves a submitted shipping cost to a known option. A cost
// matching no option is rejected rather than priced as submitted.
func OptionByCost(cost decimal.Decimal) (ShippingOption, bool) {
	for _, opt := range ShippingOptions() {
		if opt.Cost.Equal(cost) {
			return opt, true
		}
	}
	return ShippingOption{}, false
}

// MethodForCost derives the shipping-method label from the shipping cost by
// exact value. The mapping is kept as-is for compatibility with existing
// order data.
func MethodForCost(cost decimal.Decimal) orders.ShippingMethod {
	switch {
	case cost.Equal(decimal.NewFromInt(0)):
		return orders.ShippingPickup
	case cost.Equal(decimal.NewFromInt(10)):
		return orders.ShippingStandard
	case cost.Equal(decimal.NewFromInt(45)):
		return orders.ShippingExpress
	default:
		return orders.ShippingOther
	}
}

// Quote is the server-side price of a cart: items cost, shipping, total and
// the derived shipping method.
type Quote struct {
	ItemsCost    decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
	Method       orders.ShippingMethod
}

// Price computes the quote from the snapshot's own item prices. It rejects
// carts containing inactive items and carts whose items cost sums to zero.
func Price(snap cart.Snapshot, shippingCost decimal.Decimal) (Quote, error) {
	if snap.HasInactive() {
		return Quote{}, ErrInactiveItem
	}
	itemsCost := decimal.Zero
	for _, l := range snap {
		itemsCost = itemsCost.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if itemsCost.IsZero() {
		return Quote{}, ErrEmptyCart
	}
	return Quote{
		ItemsCost:    itemsCost,
		ShippingCost: shippingCost,
		Total:        itemsCost.Add(shippingCost),
		Method:       MethodForCost(shippingCost),
	}, nil
}
