package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced  = "OrderPlaced"
	EventOrderUpdated = "OrderUpdated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type LinePayload struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type OrderPlacedPayload struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	Lines      []LinePayload `json:"lines"`
	ItemsCost  string        `json:"items_cost"`
	Total      string        `json:"total"`
	Method     string        `json:"shipping_method"`
	State      string        `json:"state"`
}

type OrderUpdatedPayload struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
	Paid    bool   `json:"paid"`
	Refund  string `json:"refund_amount,omitempty"`
}
