package httpx

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"storefront/internal/redisx"
)

const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Level string
	Text  string
}

// FlashStore holds one-shot messages surfaced on the next rendered page.
type FlashStore interface {
	Push(ctx context.Context, sid string, f Flash)
	Pop(ctx context.Context, sid string) []Flash
}

// RedisFlash keeps flashes in a redis list keyed by session id.
type RedisFlash struct {
	Redis *redis.Client
}

func (r *RedisFlash) Push(ctx context.Context, sid string, f Flash) {
	if sid == "" {
		return
	}
	key := fmt.Sprintf(redisx.KeyFlash, sid)
	_ = r.Redis.RPush(ctx, key, f.Level+"|"+f.Text).Err()
	_ = r.Redis.Expire(ctx, key, redisx.TTLFlash).Err()
}

func (r *RedisFlash) Pop(ctx context.Context, sid string) []Flash {
	if sid == "" {
		return nil
	}
	key := fmt.Sprintf(redisx.KeyFlash, sid)
	raw, err := r.Redis.LRange(ctx, key, 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil
	}
	_ = r.Redis.Del(ctx, key).Err()

	out := make([]Flash, 0, len(raw))
	for _, s := range raw {
		level, text, ok := strings.Cut(s, "|")
		if !ok {
			continue
		}
		out = append(out, Flash{Level: level, Text: text})
	}
	return out
}
