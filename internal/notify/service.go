// Package notify consumes order events and keeps the fast order-status
// cache warm for the storefront.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "storefront/internal/kafka"
	"storefront/internal/orders"
	"storefront/internal/redisx"
)

type Service struct {
	Redis *redis.Client
	Log   *zap.Logger
	Name  string // dedup namespace
}

type statusCache struct {
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleOrderEvent is the consumer handler for both order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	var orderID, state string
	switch env.EventType {
	case orders.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, state = p.OrderID, p.State
	case orders.EventOrderUpdated:
		p, err := kafkax.UnwrapPayload[orders.OrderUpdatedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, state = p.OrderID, p.State
	default:
		return nil
	}

	// dedup by event id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	b, err := json.Marshal(statusCache{State: state, UpdatedAt: env.OccurredAt})
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if err := s.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}

	s.Log.Info("order event",
		zap.String("event_type", env.EventType),
		zap.String("order_id", orderID),
		zap.String("state", state),
		zap.String("trace_id", env.TraceID))
	return nil
}
