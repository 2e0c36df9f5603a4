package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"storefront/internal/auth"
	kafkax "storefront/internal/kafka"
)

var (
	ErrPermission   = errors.New("you do not have the right permissions to edit orders")
	ErrInvalidState = errors.New("unknown order state")
)

type AdminRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateAdmin(ctx context.Context, id string, version int, patch AdminPatch) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Admin is the order-administration workflow: existence is checked before
// authorization, viewing needs a weaker capability than committing.
type Admin struct {
	Repo     AdminRepo
	Producer Publisher
	Log      *zap.Logger
	Service  string
}

// EditView loads an order for the admin edit page.
func (a *Admin) EditView(ctx context.Context, p auth.Principal, id string) (*Order, error) {
	ok, err := a.Repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	if !p.Can(auth.CapViewOrders) {
		return nil, ErrPermission
	}
	return a.Repo.Get(ctx, id)
}

func (a *Admin) List(ctx context.Context, p auth.Principal) ([]Order, error) {
	if !p.Can(auth.CapViewOrders) {
		return nil, ErrPermission
	}
	return a.Repo.List(ctx)
}

// Save commits an administrator's edit. A principal who may only view gets
// ErrPermission and nothing changes.
func (a *Admin) Save(ctx context.Context, p auth.Principal, id string, version int, patch AdminPatch) error {
	ok, err := a.Repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !p.Can(auth.CapEditOrders) {
		return ErrPermission
	}
	if !ValidState(patch.State) {
		return ErrInvalidState
	}

	if err := a.Repo.UpdateAdmin(ctx, id, version, patch); err != nil {
		if !errors.Is(err, ErrStale) && !errors.Is(err, ErrNotFound) {
			a.Log.Error("order could not be updated", zap.String("order_id", id), zap.Error(err))
		}
		return err
	}

	a.publishUpdated(id, patch)
	return nil
}

func (a *Admin) publishUpdated(id string, patch AdminPatch) {
	if a.Producer == nil {
		return
	}
	refund := patch.RefundAmount
	if refund.GreaterThan(patch.Total) {
		refund = patch.Total
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderUpdated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      a.Service,
		CorrelationID: id,
		Payload: kafkax.MustMarshal(OrderUpdatedPayload{
			OrderID: id,
			State:   string(patch.State),
			Paid:    patch.Paid,
			Refund:  refund.String(),
		}),
	}
	a.Producer.Publish(PartitionKey(id), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderUpdated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
