package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	stockRowsKeyPrefix  = "planner:stock"
	dailySalesKeyPrefix = "planner:sales"
	plannerKeyPrefix    = "planner:"
	plannerScanBatch    = 100
	allSuppliersKeyPart = "_all"
)

// PlanCache keeps the inputs of a plan (stock snapshots and daily sales) for a short TTL so
// repeated plan edits don't refetch from the backends.
type PlanCache interface {
	GetStockRows(ctx context.Context, supplierID string) ([]domain.StockRow, bool, error)
	SetStockRows(ctx context.Context, supplierID string, rows []domain.StockRow) error
	GetDailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, bool, error)
	SetDailySales(ctx context.Context, date time.Time, entries []domain.SalesEntry) error
	InvalidateStock(ctx context.Context, supplierID string) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	settings, err := newRedisSettings(cfg)
	if err != nil {
		return nil, err
	}

	client, err := dialRedis(settings)
	if err != nil {
		return nil, err
	}

	return NewRedisPlanCache(client, settings.ttl), nil
}

// NewRedisPlanCache wraps an existing client. ttl <= 0 falls back to the default TTL.
func NewRedisPlanCache(client *redis.Client, ttl time.Duration) PlanCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisPlanCache{client: client, ttl: ttl}
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) GetStockRows(ctx context.Context, supplierID string) ([]domain.StockRow, bool, error) {
	var rows []domain.StockRow
	ok, err := c.get(ctx, buildStockRowsKey(supplierID), &rows)
	return rows, ok, err
}

func (c *redisPlanCache) SetStockRows(ctx context.Context, supplierID string, rows []domain.StockRow) error {
	return c.set(ctx, buildStockRowsKey(supplierID), rows)
}

func (c *redisPlanCache) GetDailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, bool, error) {
	var entries []domain.SalesEntry
	ok, err := c.get(ctx, buildDailySalesKey(date), &entries)
	return entries, ok, err
}

func (c *redisPlanCache) SetDailySales(ctx context.Context, date time.Time, entries []domain.SalesEntry) error {
	return c.set(ctx, buildDailySalesKey(date), entries)
}

func (c *redisPlanCache) InvalidateStock(ctx context.Context, supplierID string) error {
	keys := []string{buildStockRowsKey(supplierID), buildStockRowsKey("")}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached plan input, e.g. after the underlying tables were reloaded.
func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	removed, err := unlinkMatching(ctx, c.client, plannerKeyPrefix+"*", plannerScanBatch)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", removed).Msg("plan cache cleared")
	return nil
}

func (c *redisPlanCache) get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *redisPlanCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopPlanCache) GetStockRows(ctx context.Context, supplierID string) ([]domain.StockRow, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetStockRows(ctx context.Context, supplierID string, rows []domain.StockRow) error {
	return nil
}

func (n *noopPlanCache) GetDailySales(ctx context.Context, date time.Time) ([]domain.SalesEntry, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetDailySales(ctx context.Context, date time.Time, entries []domain.SalesEntry) error {
	return nil
}

func (n *noopPlanCache) InvalidateStock(ctx context.Context, supplierID string) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildStockRowsKey(supplierID string) string {
	supplierID = strings.ToLower(strings.TrimSpace(supplierID))
	if supplierID == "" {
		supplierID = allSuppliersKeyPart
	}
	return fmt.Sprintf("%s:%s", stockRowsKeyPrefix, supplierID)
}

func buildDailySalesKey(date time.Time) string {
	return fmt.Sprintf("%s:%s", dailySalesKeyPrefix, domain.DateKey(date))
}
