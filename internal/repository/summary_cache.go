package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"amc_simulator/internal/models"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "amc:summary:"

func summaryKey(runID string, preset models.PresetMode) string {
	return summaryKeyPrefix + runID + ":" + string(preset)
}

func summaryPattern(runID string) string {
	return summaryKeyPrefix + runID + ":*"
}

// RedisSummaryCache keeps run summaries in Redis. Runs are immutable, so an
// entry only goes stale when its run is deleted.
type RedisSummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{Client: client, TTL: ttl}
}

var _ SummaryCache = (*RedisSummaryCache)(nil)

func (c *RedisSummaryCache) Get(ctx context.Context, runID string, preset models.PresetMode) (models.RunSummary, bool, error) {
	b, err := c.Client.Get(ctx, summaryKey(runID, preset)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.RunSummary{}, false, nil
		}
		return models.RunSummary{}, false, fmt.Errorf("redis get summary: %w", err)
	}
	var s models.RunSummary
	if err := json.Unmarshal(b, &s); err != nil {
		return models.RunSummary{}, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return s, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, s models.RunSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.Client.Set(ctx, summaryKey(s.RunID, s.Preset), b, c.TTL).Err(); err != nil {
		return fmt.Errorf("redis set summary: %w", err)
	}
	return nil
}

// Invalidate drops every cached preset view of runID.
func (c *RedisSummaryCache) Invalidate(ctx context.Context, runID string) error {
	iter := c.Client.Scan(ctx, 0, summaryPattern(runID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan summaries: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del summaries: %w", err)
	}
	return nil
}

// NewRedisClient connects and pings; the caller closes the client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// MemorySummaryCache is the in-process fallback used when Redis is not
// configured.
type MemorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string]models.RunSummary
}

func NewMemorySummaryCache() *MemorySummaryCache {
	return &MemorySummaryCache{entries: make(map[string]models.RunSummary)}
}

var _ SummaryCache = (*MemorySummaryCache)(nil)

func (c *MemorySummaryCache) Get(_ context.Context, runID string, preset models.PresetMode) (models.RunSummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[summaryKey(runID, preset)]
	return s, ok, nil
}

func (c *MemorySummaryCache) Set(_ context.Context, s models.RunSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[summaryKey(s.RunID, s.Preset)] = s
	return nil
}

func (c *MemorySummaryCache) Invalidate(_ context.Context, runID string) error {
	prefix := summaryKeyPrefix + runID + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
