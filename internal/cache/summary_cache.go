package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cothink/internal/model"
)

// SummaryCache handles Redis operations for computed statistics. Both the
// cheap summary and the full aggregate report are invalidated on every new
// record, so a cached value is always consistent with the log it was
// computed from.
type SummaryCache interface {
	GetSummary(ctx context.Context) (*model.SummaryStats, error)
	SetSummary(ctx context.Context, stats *model.SummaryStats) error

	GetReport(ctx context.Context) (*model.AggregateReport, error)
	SetReport(ctx context.Context, report *model.AggregateReport) error

	Invalidate(ctx context.Context) error
}

type summaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a new summary cache
func NewSummaryCache(client *redis.Client) SummaryCache {
	return &summaryCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

const (
	summaryKey = "cothink:summary"
	reportKey  = "cothink:report"
)

func (c *summaryCache) GetSummary(ctx context.Context) (*model.SummaryStats, error) {
	data, err := c.client.Get(ctx, summaryKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats model.SummaryStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *summaryCache) SetSummary(ctx context.Context, stats *model.SummaryStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, data, c.ttl).Err()
}

func (c *summaryCache) GetReport(ctx context.Context) (*model.AggregateReport, error) {
	data, err := c.client.Get(ctx, reportKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.AggregateReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *summaryCache) SetReport(ctx context.Context, report *model.AggregateReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportKey, data, c.ttl).Err()
}

func (c *summaryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey, reportKey).Err()
}
