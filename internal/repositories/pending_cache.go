package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stayBack/internal/models"
)

// PendingCache keeps the per-owner list of payments awaiting verification in
// redis for a short while. Any cache failure falls through to the database.
type PendingCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func NewPendingCache(rdb *redis.Client) *PendingCache {
	return &PendingCache{Rdb: rdb, TTL: 30 * time.Second}
}

func pendingKey(ownerID int) string {
	return fmt.Sprintf("payments:pending:%d", ownerID)
}

func (c *PendingCache) Get(ctx context.Context, ownerID int) ([]models.Payment, bool) {
	if c == nil || c.Rdb == nil {
		return nil, false
	}
	raw, err := c.Rdb.Get(ctx, pendingKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var payments []models.Payment
	if err := json.Unmarshal(raw, &payments); err != nil {
		return nil, false
	}
	return payments, true
}

func (c *PendingCache) Set(ctx context.Context, ownerID int, payments []models.Payment) {
	if c == nil || c.Rdb == nil {
		return
	}
	raw, err := json.Marshal(payments)
	if err != nil {
		return
	}
	c.Rdb.Set(ctx, pendingKey(ownerID), raw, c.TTL)
}

// Invalidate drops the cached list after any state transition for the owner.
func (c *PendingCache) Invalidate(ctx context.Context, ownerID int) {
	if c == nil || c.Rdb == nil {
		return
	}
	c.Rdb.Del(ctx, pendingKey(ownerID))
}
