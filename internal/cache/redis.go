// Package cache keeps hot read paths off MySQL. Only derived data lives
// here; the database stays the source of truth and every entry carries a
// short TTL so stale reads age out on their own.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"navticket/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a seat cache over an optional redis client. A nil client is
// valid and turns every operation into a no-op, so deployments without
// redis run unchanged.
func New(client *redis.Client, ttl time.Duration) *SeatCache {
	return &SeatCache{client: client, ttl: ttl}
}

func seatSummaryKey(tripID int64) string {
	return fmt.Sprintf("seatmap:trip:%d", tripID)
}

// GetSummary returns the cached availability counters for a trip, or
// ok=false on miss, disabled cache, or any redis error.
func (c *SeatCache) GetSummary(ctx context.Context, tripID int64) (models.SeatSummary, bool) {
	if c == nil || c.client == nil {
		return models.SeatSummary{}, false
	}
	raw, err := c.client.Get(ctx, seatSummaryKey(tripID)).Bytes()
	if err != nil {
		return models.SeatSummary{}, false
	}
	var sum models.SeatSummary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return models.SeatSummary{}, false
	}
	return sum, true
}

// SetSummary stores the counters with the configured TTL. Failures are
// swallowed; the cache is best effort.
func (c *SeatCache) SetSummary(ctx context.Context, tripID int64, sum models.SeatSummary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	c.client.Set(ctx, seatSummaryKey(tripID), raw, c.ttl)
}

// InvalidateTrip drops the cached counters after any seat mutation.
func (c *SeatCache) InvalidateTrip(ctx context.Context, tripID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, seatSummaryKey(tripID))
}
