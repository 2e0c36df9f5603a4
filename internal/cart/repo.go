package cart

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Snapshot loads the customer's cart lines with each line's item resolved.
func (r *Repo) Snapshot(ctx context.Context, customerID string) (Snapshot, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.customer_id, c.item_id, c.quantity, i.id, i.name, i.price, i.active
		FROM cart_lines c
		JOIN items i ON i.id = c.item_id
		WHERE c.customer_id = $1
		ORDER BY i.name`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.CustomerID, &l.ItemID, &l.Quantity,
			&l.Item.ID, &l.Item.Name, &l.Item.Price, &l.Item.Active); err != nil {
			return nil, err
		}
		snap = append(snap, l)
	}
	return snap, rows.Err()
}

// Count returns the unit count across the customer's lines, shown as the
// cart badge on every page.
func (r *Repo) Count(ctx context.Context, customerID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_lines WHERE customer_id=$1`, customerID).Scan(&n)
	return n, err
}

// Add upserts a line, accumulating quantity for an item already in the cart.
func (r *Repo) Add(ctx context.Context, customerID string, itemID int64, qty int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_lines(customer_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, item_id) DO UPDATE
		SET quantity = cart_lines.quantity + EXCLUDED.quantity`, customerID, itemID, qty)
	return err
}

func (r *Repo) Remove(ctx context.Context, customerID string, itemID int64) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM cart_lines WHERE customer_id=$1 AND item_id=$2`, customerID, itemID)
	return err
}

// Clear removes every line for the customer and returns how many units were
// dropped.
func (r *Repo) Clear(ctx context.Context, customerID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_lines WHERE customer_id=$1`, customerID).Scan(&n)
	if err != nil {
		return 0, err
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM cart_lines WHERE customer_id=$1`, customerID); err != nil {
		return 0, err
	}
	return n, nil
}
