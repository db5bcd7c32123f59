package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itechlabs/comercial-insights/internal/config"
	"github.com/itechlabs/comercial-insights/internal/domain"
)

const reportKeyPrefix = "comercial:report"

// ReportCache stores complete report bundles keyed by the content hash of
// the four uploads plus options, so re-submitting the same batch skips
// the pipeline entirely.
type ReportCache interface {
	Get(ctx context.Context, hash string) (*domain.Report, bool, error)
	Set(ctx context.Context, hash string, report *domain.Report) error
	Invalidate(ctx context.Context, hash string) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a redis-backed cache when enabled, otherwise a
// noop implementation so callers never branch on configuration.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewNoopReportCache returns a cache that never hits.
func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) Get(ctx context.Context, hash string) (*domain.Report, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(hash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, hash string, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(hash), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context, hash string) error {
	return c.client.Del(ctx, reportKey(hash)).Err()
}

func (n *noopReportCache) Get(ctx context.Context, hash string) (*domain.Report, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) Set(ctx context.Context, hash string, report *domain.Report) error {
	return nil
}

func (n *noopReportCache) Invalidate(ctx context.Context, hash string) error {
	return nil
}

func reportKey(hash string) string {
	return fmt.Sprintf("%s:%s", reportKeyPrefix, hash)
}
