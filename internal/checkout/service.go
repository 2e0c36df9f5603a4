package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cart"
	kafkax "storefront/internal/kafka"
	"storefront/internal/orders"
	"storefront/internal/rates"
	"storefront/internal/stores"
)

var (
	ErrCartChanged       = errors.New("cart items are different from checkout items")
	ErrBadShippingOption = errors.New("unknown shipping option")
)

// WebsiteStore is the canonical storefront record every web order belongs to.
const WebsiteStore = "Website"

// CheckoutCurrencies are shown as converted totals on the review page.
var CheckoutCurrencies = []string{"EUR", "GBP", "ILS"}

type CartSource interface {
	Snapshot(ctx context.Context, customerID string) (cart.Snapshot, error)
	Clear(ctx context.Context, customerID string) (int, error)
}

type OrderWriter interface {
	Create(ctx context.Context, o *orders.Order) error
}

type StoreFinder interface {
	GetByName(ctx context.Context, name string) (*stores.Store, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Carts    CartSource
	Orders   OrderWriter
	Stores   StoreFinder
	Rates    rates.Source
	Producer Publisher
	Log      *zap.Logger
	Service  string
}

type Conversion struct {
	Code  string
	Rate  decimal.Decimal
	Total decimal.Decimal
}

// Page is everything the checkout review page renders: the priced cart, the
// optional currency conversions and the unit-expanded id list echoed back on
// confirmation.
type Page struct {
	Snapshot    cart.Snapshot
	Quote       Quote
	Conversions []Conversion
	ExpandedIDs []int64
	Options     []ShippingOption
}

// Review prices the customer's cart for the checkout page. A failed rate
// lookup is logged and the page simply shows no converted totals.
func (s *Service) Review(ctx context.Context, customerID string) (*Page, error) {
	snap, err := s.Carts.Snapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}
	quote, err := Price(snap, DefaultShippingCost)
	if err != nil {
		return nil, err
	}

	conversions, err := s.Convert(ctx, quote.Total)
	if err != nil {
		s.Log.Warn("rate lookup failed, rendering without conversions", zap.Error(err))
		conversions = nil
	}

	return &Page{
		Snapshot:    snap,
		Quote:       quote,
		Conversions: conversions,
		ExpandedIDs: snap.ExpandIDs(),
		Options:     ShippingOptions(),
	}, nil
}

// Convert multiplies the total into each checkout currency.
func (s *Service) Convert(ctx context.Context, total decimal.Decimal) ([]Conversion, error) {
	found, err := s.Rates.Rates(ctx, CheckoutCurrencies)
	if err != nil {
		return nil, err
	}
	out := make([]Conversion, 0, len(CheckoutCurrencies))
	for _, code := range CheckoutCurrencies {
		rate := found[code]
		out = append(out, Conversion{Code: code, Rate: rate, Total: total.Mul(rate)})
	}
	return out, nil
}

// PlaceOrderForm is what the confirmation POST submits: the id list the
// customer saw, the chosen shipping option's cost and the shipping address.
// Monetary totals are never taken from the form.
type PlaceOrderForm struct {
	RenderedIDs  []int64
	ShippingCost decimal.Decimal
	Address      orders.Address
}

// PlaceOrder validates the submitted cart against the live one, reprices it
// server-side and persists order, payment and lines atomically. On success
// the cart is cleared and an OrderPlaced event is published.
func (s *Service) PlaceOrder(ctx context.Context, customerID, traceID string, form PlaceOrderForm) (string, error) {
	snap, err := s.Carts.Snapshot(ctx, customerID)
	if err != nil {
		return "", err
	}
	if !cart.SameItems(snap.ExpandIDs(), form.RenderedIDs) {
		return "", ErrCartChanged
	}
	opt, ok := OptionByCost(form.ShippingCost)
	if !ok {
		return "", ErrBadShippingOption
	}
	quote, err := Price(snap, opt.Cost)
	if err != nil {
		return "", err
	}

	website, err := s.Stores.GetByName(ctx, WebsiteStore)
	if err != nil {
		return "", err
	}

	o := &orders.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Payment: orders.Payment{
			ID:           uuid.NewString(),
			Method:       orders.PaymentCreditCard,
			Paid:         true,
			ShippingCost: quote.ShippingCost,
			ItemsCost:    quote.ItemsCost,
			Total:        quote.Total,
		},
		ShippingAddress: form.Address,
		State:           orders.StateNew,
		ShippingMethod:  quote.Method,
		OrderedAt:       time.Now().UTC(),
		StoreID:         website.ID,
	}
	for _, l := range snap {
		o.Lines = append(o.Lines, orders.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	if err := s.Orders.Create(ctx, o); err != nil {
		s.Log.Error("order could not be created", zap.String("order_id", o.ID), zap.Error(err))
		return "", err
	}

	if _, err := s.Carts.Clear(ctx, customerID); err != nil {
		// order is already committed; the stale cart is recoverable
		s.Log.Error("cart could not be cleared after checkout",
			zap.String("customer_id", customerID), zap.Error(err))
	}

	s.publishPlaced(o, traceID)
	return o.ID, nil
}

func (s *Service) publishPlaced(o *orders.Order, traceID string) {
	if s.Producer == nil {
		return
	}
	lines := make([]orders.LinePayload, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orders.LinePayload{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Lines:      lines,
			ItemsCost:  o.Payment.ItemsCost.String(),
			Total:      o.Payment.Total.String(),
			Method:     string(o.ShippingMethod),
			State:      string(o.State),
		}),
	}
	s.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
