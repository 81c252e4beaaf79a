package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const DefaultTTL = 30 * time.Second

// SlotCache keeps resolved slot lists in Redis. Every provider has a
// version counter that is part of each data key; bumping it orphans all
// of the provider's entries at once and the TTL reaps them.
type SlotCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewSlotCache(rdb redis.UniversalClient, ttl time.Duration) *SlotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SlotCache{rdb: rdb, ttl: ttl}
}

func versionKey(providerID uuid.UUID) string {
	return "slots:ver:" + providerID.String()
}

func dataKey(q domain.AvailabilityInput, version int64) string {
	return fmt.Sprintf("slots:%s:%s:%s:%t:v%d",
		q.ProviderID, q.ServiceID, q.Date.Format(timezone.DateLayout), q.IsConsultation, version)
}

func (c *SlotCache) version(ctx context.Context, providerID uuid.UUID) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(providerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// Get looks the view up under the provider's current version and returns
// that version for the matching Set. A version of -1 means Redis could
// not be read and the view must not be stored.
func (c *SlotCache) Get(ctx context.Context, q domain.AvailabilityInput) ([]domain.ResolvedSlot, int64, bool) {
	ver, err := c.version(ctx, q.ProviderID)
	if err != nil {
		log.Warn().Err(err).Msg("slot cache: version read failed")
		return nil, -1, false
	}

	raw, err := c.rdb.Get(ctx, dataKey(q, ver)).Bytes()
	if err == redis.Nil {
		return nil, ver, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("slot cache: get failed")
		return nil, ver, false
	}

	var slots []domain.ResolvedSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		log.Warn().Err(err).Msg("slot cache: corrupt entry")
		return nil, ver, false
	}
	return slots, ver, true
}

// Set stores a view under the version Get returned before the view was
// loaded. An Invalidate in between leaves the entry orphaned.
func (c *SlotCache) Set(ctx context.Context, q domain.AvailabilityInput, ver int64, slots []domain.ResolvedSlot) {
	if ver < 0 {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, dataKey(q, ver), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("slot cache: set failed")
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := c.rdb.Incr(ctx, versionKey(providerID)).Err(); err != nil {
		log.Error().Err(err).Str("provider_id", providerID.String()).Msg("slot cache: invalidate failed")
	}
}
