package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"caresched/internal/domain"
)

// SlotCache keeps recently computed open-slot answers in redis under a
// short TTL. Every failure degrades to a cache miss; the booking path never
// depends on redis being up, and the ledger's unique index corrects any
// staleness at insert time.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewSlotCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *SlotCache {
	if log == nil {
		log = slog.Default()
	}
	return &SlotCache{
		client: client,
		ttl:    ttl,
		log:    log.With(slog.String("component", "cache.slots")),
	}
}

func (c *SlotCache) Get(ctx context.Context, providerID string, date time.Time) ([]domain.Slot, bool) {
	b, err := c.client.Get(ctx, slotKey(providerID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("slot cache read failed", slog.Any("err", err), slog.String("provider_id", providerID))
		}
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal(b, &slots); err != nil {
		c.log.Warn("slot cache entry corrupt", slog.Any("err", err), slog.String("provider_id", providerID))
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, providerID string, date time.Time, slots []domain.Slot) {
	b, err := json.Marshal(slots)
	if err != nil {
		c.log.Warn("slot cache marshal failed", slog.Any("err", err), slog.String("provider_id", providerID))
		return
	}
	if err := c.client.Set(ctx, slotKey(providerID, date), b, c.ttl).Err(); err != nil {
		c.log.Warn("slot cache write failed", slog.Any("err", err), slog.String("provider_id", providerID))
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, providerID string, date time.Time) {
	if err := c.client.Del(ctx, slotKey(providerID, date)).Err(); err != nil {
		c.log.Warn("slot cache invalidate failed", slog.Any("err", err), slog.String("provider_id", providerID))
	}
}

func slotKey(providerID string, date time.Time) string {
	return fmt.Sprintf("open_slots:%s:%s", providerID, date.UTC().Format("2006-01-02"))
}
