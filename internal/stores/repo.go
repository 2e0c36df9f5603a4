package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("store not found")
	// ErrHasOrders blocks deletion while any order references the store.
	ErrHasOrders = errors.New("store contains orders")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context) ([]Store, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, street, city, country, phone, email, active FROM stores ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address.Street, &s.Address.City,
			&s.Address.Country, &s.Phone, &s.Email, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		hours, err := r.hours(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Hours = hours
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Store, error) {
	var s Store
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, street, city, country, phone, email, active FROM stores WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Address.Street, &s.Address.City,
			&s.Address.Country, &s.Phone, &s.Email, &s.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Hours, err = r.hours(ctx, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByName resolves the canonical storefront record, e.g. "Website".
func (r *Repo) GetByName(ctx context.Context, name string) (*Store, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `SELECT id FROM stores WHERE name=$1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE id=$1`, id).Scan(&n)
	return n > 0, err
}

// Create validates the opening hours, then writes the store and its seven
// windows in one transaction.
func (r *Repo) Create(ctx context.Context, s *Store) error {
	if err := ValidateHours(s.Hours); err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO stores(name, street, city, country, phone, email, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		s.Name, s.Address.Street, s.Address.City, s.Address.Country,
		s.Phone, s.Email, s.Active).Scan(&s.ID)
	if err != nil {
		return err
	}
	if err := r.writeHours(ctx, tx, s.ID, s.Hours); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Update(ctx context.Context, s *Store) error {
	if err := ValidateHours(s.Hours); err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE stores SET name=$1, street=$2, city=$3, country=$4, phone=$5, email=$6, active=$7
		WHERE id=$8`,
		s.Name, s.Address.Street, s.Address.City, s.Address.Country,
		s.Phone, s.Email, s.Active, s.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM store_hours WHERE store_id=$1`, s.ID); err != nil {
		return err
	}
	if err := r.writeHours(ctx, tx, s.ID, s.Hours); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the store unless any order references it.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE store_id=$1`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrHasOrders
	}
	if _, err := tx.Exec(ctx, `DELETE FROM store_hours WHERE store_id=$1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM stores WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *Repo) hours(ctx context.Context, storeID int64) ([]DayHours, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT day_of_week, open_minutes, close_minutes
		FROM store_hours WHERE store_id=$1 ORDER BY day_of_week`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayHours
	for rows.Next() {
		var h DayHours
		if err := rows.Scan(&h.Day, &h.Open, &h.Close); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) writeHours(ctx context.Context, tx pgx.Tx, storeID int64, hours []DayHours) error {
	for _, h := range hours {
		if _, err := tx.Exec(ctx, `
			INSERT INTO store_hours(store_id, day_of_week, open_minutes, close_minutes)
			VALUES ($1, $2, $3, $4)`, storeID, h.Day, h.Open, h.Close); err != nil {
			return err
		}
	}
	return nil
}
