package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/redisx"
)

// Sessions maps a cookie session id to a customer id in redis.
type Sessions struct {
	Redis     *redis.Client
	Customers *Customers
	TTL       time.Duration
}

// Begin creates a session for the customer and returns the new session id.
func (s *Sessions) Begin(ctx context.Context, customerID string) (string, error) {
	sid := uuid.NewString()
	ttl := s.TTL
	if ttl == 0 {
		ttl = redisx.TTLSession
	}
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeySession, sid), customerID, ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *Sessions) End(ctx context.Context, sid string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, sid)).Err()
}

// Resolve turns a session id into the authenticated principal. An unknown
// or expired session yields the anonymous principal.
func (s *Sessions) Resolve(ctx context.Context, sid string) (Principal, error) {
	if sid == "" {
		return Principal{}, nil
	}
	customerID, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeySession, sid)).Result()
	if err == redis.Nil {
		return Principal{}, nil
	}
	if err != nil {
		return Principal{}, err
	}
	c, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{CustomerID: c.ID, Name: c.Name, Roles: c.Roles}, nil
}
