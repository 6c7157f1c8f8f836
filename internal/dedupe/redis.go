// internal/dedupe/redis.go
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "sniper:mint:"
	DefaultClaimTTL = 24 * time.Hour
)

// Claimer is the subset of the redis client used for claims.
type Claimer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Claimer = (*redis.Client)(nil)

// Redis claims each mint once across every process sharing the server.
type Redis struct {
	client Claimer
	ttl    time.Duration
}

func NewRedis(client Claimer, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Claim returns true for the first caller. On a redis error the event is let
// through and the error is returned for logging.
func (r *Redis) Claim(ctx context.Context, mint string) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+mint, time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return true, fmt.Errorf("failed to claim mint %s: %w", mint, err)
	}
	return ok, nil
}

// Release drops the claim so another event for mint may buy again.
func (r *Redis) Release(ctx context.Context, mint string) error {
	if err := r.client.Del(ctx, keyPrefix+mint).Err(); err != nil {
		return fmt.Errorf("failed to release mint %s: %w", mint, err)
	}
	return nil
}

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
