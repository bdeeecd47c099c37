// Package tally keeps a live per-day attendance counter in Redis, written
// by the worker and read by the admin dashboard. It is best-effort: Redis
// being down degrades only the live counter, never the ledger.
package tally

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "attendance:tally:"

// Counters held per day. Hash fields are method names.
const ttl = 48 * time.Hour

// Tally reads and writes the live daily counters.
type Tally struct {
	client *redis.Client
}

// New creates a tally over the given redis client.
func New(client *redis.Client) *Tally {
	return &Tally{client: client}
}

// Record increments the counter for one marked attendance.
func (t *Tally) Record(ctx context.Context, date, method string) error {
	if method == "" {
		method = "manual"
	}
	key := keyPrefix + date
	pipe := t.client.TxPipeline()
	pipe.HIncrBy(ctx, key, method, 1)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Snapshot is the live count for one day.
type Snapshot struct {
	Date     string         `json:"date"`
	Total    int            `json:"total"`
	ByMethod map[string]int `json:"byMethod"`
}

// ForDate returns the live counters for a calendar day. A day with no
// marks yields zero counts, not an error.
func (t *Tally) ForDate(ctx context.Context, date string) (Snapshot, error) {
	fields, err := t.client.HGetAll(ctx, keyPrefix+date).Result()
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Date: date, ByMethod: map[string]int{}}
	for method, raw := range fields {
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		snap.ByMethod[method] = n
		snap.Total += n
	}
	return snap, nil
}
