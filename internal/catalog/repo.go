package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("item not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, id int64) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `SELECT id, name, price, active FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.Name, &it.Price, &it.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (r *Repo) ListActive(ctx context.Context) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price, active FROM items WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Active); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
