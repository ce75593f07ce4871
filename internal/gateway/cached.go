package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sectorsCacheKey = "produkta:sectors"
	msmesCacheKey   = "produkta:msmes:all"
	visitKeyPrefix  = "produkta:visit"
)

// Cached decorates a Store with a Redis read cache and per-client visit de-duplication.
// A nil redis client turns it into a pass-through.
//
// Cache entries are stored under a generation of their key. Writes bump the generation, so a
// read that raced a write fills an entry nobody looks up again.
type Cached struct {
	Store

	redis        *redisclient.Client
	ttl          time.Duration
	dedupeWindow time.Duration
	logger       *logging.SafeLogger
}

// NewCached wraps store. Entries expire after ttl; repeated visits from one client within window are dropped.
func NewCached(store Store, rc *redisclient.Client, ttl, window time.Duration, logger *logging.SafeLogger) *Cached {
	return &Cached{
		Store:        store,
		redis:        rc,
		ttl:          ttl,
		dedupeWindow: window,
		logger:       logger.Named("gateway_cache"),
	}
}

func (c *Cached) ListSectors(ctx context.Context) ([]models.Sector, error) {
	entry, cacheable := c.entry(ctx, sectorsCacheKey)

	var sectors []models.Sector
	if cacheable && c.load(ctx, sectorsCacheKey, entry, &sectors) {
		return sectors, nil
	}

	sectors, err := c.Store.ListSectors(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.save(ctx, entry, sectors)
	}
	return sectors, nil
}

func (c *Cached) AllMSMEs(ctx context.Context) ([]models.MSME, error) {
	entry, cacheable := c.entry(ctx, msmesCacheKey)

	var msmes []models.MSME
	if cacheable && c.load(ctx, msmesCacheKey, entry, &msmes) {
		return msmes, nil
	}

	msmes, err := c.Store.AllMSMEs(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.save(ctx, entry, msmes)
	}
	return msmes, nil
}

// ListMSMEs serves from the cached collection when Redis is configured
func (c *Cached) ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error) {
	if c.redis == nil {
		return c.Store.ListMSMEs(ctx, filters, page, pageSize)
	}

	msmes, err := c.AllMSMEs(ctx)
	if err != nil {
		return nil, 0, err
	}
	sectors, err := c.ListSectors(ctx)
	if err != nil {
		return nil, 0, err
	}

	items, total := pageOf(msmes, sectors, filters, page, pageSize)
	return items, total, nil
}

func (c *Cached) CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error) {
	m, err := c.Store.CreateMSME(ctx, payload)
	if err == nil {
		c.invalidate(ctx, msmesCacheKey)
	}
	return m, err
}

func (c *Cached) UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error) {
	m, err := c.Store.UpdateMSME(ctx, id, payload)
	if err == nil {
		c.invalidate(ctx, msmesCacheKey)
	}
	return m, err
}

func (c *Cached) DeleteMSME(ctx context.Context, id int64) error {
	err := c.Store.DeleteMSME(ctx, id)
	if err == nil {
		c.invalidate(ctx, msmesCacheKey)
	}
	return err
}

// RecordVisit counts a visit unless the same client already visited id within the window
func (c *Cached) RecordVisit(ctx context.Context, id int64) error {
	key := ""
	if client := ClientFrom(ctx); c.redis != nil && client != "" && c.dedupeWindow > 0 {
		key = fmt.Sprintf("%s:%d:%s", visitKeyPrefix, id, client)
		fresh, err := c.redis.SetNX(ctx, key, 1, c.dedupeWindow).Result()
		switch {
		case err != nil:
			c.logger.Warn("visit dedupe unavailable", zap.Int64("msme_id", id), zap.Error(err))
			key = ""
		case !fresh:
			return ErrDuplicateVisit
		}
	}

	if err := c.Store.RecordVisit(ctx, id); err != nil {
		if key != "" {
			c.redis.Del(ctx, key)
		}
		return err
	}
	c.invalidate(ctx, msmesCacheKey)
	return nil
}

func (c *Cached) RecordExport(ctx context.Context, id int64) error {
	err := c.Store.RecordExport(ctx, id)
	if err == nil {
		c.invalidate(ctx, msmesCacheKey)
	}
	return err
}

func (c *Cached) CreateSector(ctx context.Context, name string) (models.Sector, error) {
	s, err := c.Store.CreateSector(ctx, name)
	if err == nil {
		c.invalidate(ctx, sectorsCacheKey)
	}
	return s, err
}

func (c *Cached) UpdateSector(ctx context.Context, id int64, name string) (models.Sector, error) {
	s, err := c.Store.UpdateSector(ctx, id, name)
	if err == nil {
		c.invalidate(ctx, sectorsCacheKey)
	}
	return s, err
}

func (c *Cached) DeleteSector(ctx context.Context, id int64) error {
	err := c.Store.DeleteSector(ctx, id)
	if err == nil {
		c.invalidate(ctx, sectorsCacheKey)
	}
	return err
}

func (c *Cached) Ping(ctx context.Context) error {
	if err := c.Store.Ping(ctx); err != nil {
		return err
	}
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func generationKey(key string) string {
	return key + ":gen"
}

func entryKey(key string, gen int64) string {
	return key + ":v" + strconv.FormatInt(gen, 10)
}

// entry returns the Redis key holding the current generation of key. It reports false when
// there is no cache or the generation cannot be read.
func (c *Cached) entry(ctx context.Context, key string) (string, bool) {
	if c.redis == nil {
		return "", false
	}

	gen, err := c.redis.Get(ctx, generationKey(key)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		c.logger.Warn("cache generation unavailable", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return entryKey(key, gen), true
}

// load reads entry into dst. key labels the cache metrics.
func (c *Cached) load(ctx context.Context, key, entry string, dst any) bool {
	raw, err := c.redis.Get(ctx, entry).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		observability.CacheHits.WithLabelValues(key, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		observability.CacheHits.WithLabelValues(key, "miss").Inc()
		return false
	}

	observability.CacheHits.WithLabelValues(key, "hit").Inc()
	return true
}

func (c *Cached) save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

// invalidate moves every key to a new generation and drops the entry of the previous one
func (c *Cached) invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	for _, key := range keys {
		gen, err := c.redis.Incr(ctx, generationKey(key)).Result()
		if err != nil {
			c.logger.Warn("failed to invalidate cache", zap.String("key", key), zap.Error(err))
			continue
		}
		if err := c.redis.Del(ctx, entryKey(key, gen-1)).Err(); err != nil {
			c.logger.Warn("failed to drop stale cache entry", zap.String("key", key), zap.Error(err))
		}
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Mongo)(nil)
	_ Store = (*SQL)(nil)
	_ Store = (*Cached)(nil)
)
