// Package rates looks up currency exchange rates from an external service,
// with a redis cache in front.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"storefront/internal/redisx"
)

// Source yields each requested currency code's exchange rate. Lookups may
// fail; callers decide what to show without rates.
type Source interface {
	Rates(ctx context.Context, codes []string) (map[string]decimal.Decimal, error)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) Rates(ctx context.Context, codes []string) (map[string]decimal.Decimal, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(codes, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate lookup: unexpected status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("rate lookup: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(codes))
	for _, code := range codes {
		rate, ok := body.Rates[code]
		if !ok {
			return nil, fmt.Errorf("rate lookup: no rate for %s", code)
		}
		out[code] = rate
	}
	return out, nil
}

// Cached serves rates from redis and falls through to the wrapped source on
// a miss, backfilling the cache.
type Cached struct {
	Next  Source
	Redis *redis.Client
}

func (c *Cached) Rates(ctx context.Context, codes []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(codes))
	var missing []string
	for _, code := range codes {
		s, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyRate, code)).Result()
		if err != nil {
			missing = append(missing, code)
			continue
		}
		rate, err := decimal.NewFromString(s)
		if err != nil {
			missing = append(missing, code)
			continue
		}
		out[code] = rate
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.Next.Rates(ctx, missing)
	if err != nil {
		return nil, err
	}
	for code, rate := range fetched {
		out[code] = rate
		_ = c.Redis.Set(ctx, fmt.Sprintf(redisx.KeyRate, code), rate.String(), redisx.TTLRateCache).Err()
	}
	return out, nil
}
