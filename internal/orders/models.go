package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateNew       State = "New"
	StatePacking   State = "Packing"
	StateShipping  State = "Shipping"
	StateFulfilled State = "Fulfilled"
	StateCancelled State = "Cancelled"
)

// States an administrator may set. There is no enforced transition graph;
// any authorized edit may move an order to any of these.
func ValidState(s State) bool {
	switch s {
	case StateNew, StatePacking, StateShipping, StateFulfilled, StateCancelled:
		return true
	}
	return false
}

type ShippingMethod string

const (
	ShippingPickup   ShippingMethod = "Pickup"
	ShippingStandard ShippingMethod = "Standard"
	ShippingExpress  ShippingMethod = "Express"
	ShippingOther    ShippingMethod = "Other"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "CreditCard"
)

type Payment struct {
	ID           string
	Method       PaymentMethod
	Paid         bool
	ShippingCost decimal.Decimal
	ItemsCost    decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	RefundAmount decimal.Decimal
}

// Line is an immutable item snapshot attached to exactly one order.
type Line struct {
	ItemID   int64
	Quantity int
}

type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

type Order struct {
	ID              string
	CustomerID      string
	Payment         Payment
	Lines           []Line
	ShippingAddress Address
	State           State
	ShippingMethod  ShippingMethod
	OrderedAt       time.Time
	StoreID         int64
	Version         int
}

// AdminPatch carries the fields an administrator may change on an order.
type AdminPatch struct {
	Paid         bool
	Method       PaymentMethod
	ShippingCost decimal.Decimal
	ItemsCost    decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	RefundAmount decimal.Decimal
	State        State
}

// Apply copies the patch onto the order. A refund amount above the total is
// capped at the total, not rejected.
func (p AdminPatch) Apply(o *Order) {
	o.Payment.Paid = p.Paid
	o.Payment.Method = p.Method
	o.Payment.ShippingCost = p.ShippingCost
	o.Payment.ItemsCost = p.ItemsCost
	o.Payment.Total = p.Total
	o.Payment.Notes = p.Notes
	if p.RefundAmount.GreaterThan(p.Total) {
		o.Payment.RefundAmount = p.Total
	} else {
		o.Payment.RefundAmount = p.RefundAmount
	}
	o.State = p.State
}
