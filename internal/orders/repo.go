package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStale means the order changed since it was loaded for editing.
	ErrStale = errors.New("order was modified concurrently")
)

type Repo struct{ DB *pgxpool.Pool }

// Create persists the order, its payment sub-record and its lines as one
// transaction. Nothing is committed on any failure.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO payments(id, method, paid, shipping_cost, items_cost, total, notes, refund_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.Payment.ID, o.Payment.Method, o.Payment.Paid, o.Payment.ShippingCost,
		o.Payment.ItemsCost, o.Payment.Total, o.Payment.Notes, o.Payment.RefundAmount)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, customer_id, payment_id, state, shipping_method, ordered_at,
		                   store_id, ship_street, ship_city, ship_postal_code, ship_country, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)`,
		o.ID, o.CustomerID, o.Payment.ID, o.State, o.ShippingMethod, o.OrderedAt, o.StoreID,
		o.ShippingAddress.Street, o.ShippingAddress.City,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country)
	if err != nil {
		return err
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, item_id, quantity)
			VALUES ($1, $2, $3)`, o.ID, l.ItemID, l.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	o.Version = 1
	return nil
}

// Get loads the order with its payment and lines included.
func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT o.id, o.customer_id, o.state, o.shipping_method, o.ordered_at, o.store_id,
		       o.ship_street, o.ship_city, o.ship_postal_code, o.ship_country, o.version,
		       p.id, p.method, p.paid, p.shipping_cost, p.items_cost, p.total, p.notes, p.refund_amount
		FROM orders o
		JOIN payments p ON p.id = o.payment_id
		WHERE o.id = $1`, id).
		Scan(&o.ID, &o.CustomerID, &o.State, &o.ShippingMethod, &o.OrderedAt, &o.StoreID,
			&o.ShippingAddress.Street, &o.ShippingAddress.City,
			&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country, &o.Version,
			&o.Payment.ID, &o.Payment.Method, &o.Payment.Paid, &o.Payment.ShippingCost,
			&o.Payment.ItemsCost, &o.Payment.Total, &o.Payment.Notes, &o.Payment.RefundAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT item_id, quantity FROM order_lines WHERE order_id=$1 ORDER BY item_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}

func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE id=$1`, id).Scan(&n)
	return n > 0, err
}

// List returns all orders with payments, newest first, for the admin list.
func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.customer_id, o.state, o.shipping_method, o.ordered_at, o.store_id, o.version,
		       p.id, p.method, p.paid, p.shipping_cost, p.items_cost, p.total, p.notes, p.refund_amount
		FROM orders o
		JOIN payments p ON p.id = o.payment_id
		ORDER BY o.ordered_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.State, &o.ShippingMethod, &o.OrderedAt,
			&o.StoreID, &o.Version,
			&o.Payment.ID, &o.Payment.Method, &o.Payment.Paid, &o.Payment.ShippingCost,
			&o.Payment.ItemsCost, &o.Payment.Total, &o.Payment.Notes, &o.Payment.RefundAmount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateAdmin applies an administrator's patch to the order and its payment.
// The write is guarded by the version the editor loaded; a concurrent edit
// since then returns ErrStale and changes nothing.
func (r *Repo) UpdateAdmin(ctx context.Context, id string, version int, patch AdminPatch) error {
	o, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	patch.Apply(o)

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`UPDATE orders SET state=$1, version=version+1 WHERE id=$2 AND version=$3`,
		o.State, id, version)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrStale
	}

	_, err = tx.Exec(ctx, `
		UPDATE payments SET method=$1, paid=$2, shipping_cost=$3, items_cost=$4,
		       total=$5, notes=$6, refund_amount=$7
		WHERE id=$8`,
		o.Payment.Method, o.Payment.Paid, o.Payment.ShippingCost, o.Payment.ItemsCost,
		o.Payment.Total, o.Payment.Notes, o.Payment.RefundAmount, o.Payment.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
