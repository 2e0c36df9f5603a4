package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("unknown email or wrong password")

type Customer struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	Roles        []string
}

type Customers struct{ DB *pgxpool.Pool }

func (r *Customers) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx,
		`SELECT id, email, name, password_hash, roles FROM customers WHERE email=$1`, email).
		Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.Roles)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Customers) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx,
		`SELECT id, email, name, password_hash, roles FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.Roles)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Authenticate checks the password against the stored bcrypt hash.
func (r *Customers) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	c, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return c, nil
}

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
