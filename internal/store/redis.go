package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the shared client used by the queue, the live tally and
// the rate limiter.
type Redis struct {
	Client *redis.Client
}

// RedisTimeouts carries the per-operation deadlines for the client.
// Zero values fall back to short defaults so a misconfigured timeout
// never means "wait forever".
type RedisTimeouts struct {
	Dial  time.Duration
	Read  time.Duration
	Write time.Duration
}

// NewRedis connects to redis at addr with the given timeouts.
func NewRedis(addr string, t RedisTimeouts) *Redis {
	if t.Dial <= 0 {
		t.Dial = 2 * time.Second
	}
	if t.Read <= 0 {
		t.Read = time.Second
	}
	if t.Write <= 0 {
		t.Write = time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  t.Dial,
		ReadTimeout:  t.Read,
		WriteTimeout: t.Write,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}
