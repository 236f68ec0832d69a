package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// TTL constants
const (
	LeagueIDTTL = 24 * time.Hour
	LastRunTTL  = 7 * 24 * time.Hour
)

// Connect parses a redis:// URL and verifies the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisCache stores league lookups and the last report of each sync job
type RedisCache struct {
	client    redis.Cmdable
	leagueTTL time.Duration
}

// NewRedisCache creates a new Redis cache. leagueTTL <= 0 uses LeagueIDTTL.
func NewRedisCache(client redis.Cmdable, leagueTTL time.Duration) *RedisCache {
	if leagueTTL <= 0 {
		leagueTTL = LeagueIDTTL
	}
	return &RedisCache{
		client:    client,
		leagueTTL: leagueTTL,
	}
}

func leagueKey(query string) string {
	return fmt.Sprintf("leagues:id:%s", strings.ToLower(strings.TrimSpace(query)))
}

func lastRunKey(job models.Job) string {
	return fmt.Sprintf("sync:last:%s", job)
}

// GetLeagueID returns a previously resolved league id
func (c *RedisCache) GetLeagueID(ctx context.Context, query string) (string, bool, error) {
	id, err := c.client.Get(ctx, leagueKey(query)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// SetLeagueID remembers a resolved league id
func (c *RedisCache) SetLeagueID(ctx context.Context, query, id string) error {
	return c.client.Set(ctx, leagueKey(query), id, c.leagueTTL).Err()
}

// WriteLastRun stores report as the latest run of its job
func (c *RedisCache) WriteLastRun(ctx context.Context, report models.SyncReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, lastRunKey(report.Job), data, LastRunTTL)
	if report.Succeeded() {
		pipe.Set(ctx, lastRunKey(report.Job)+":ok", report.FinishedAt.Format(time.RFC3339), LastRunTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// ObserveRun records the report once a run finishes
func (c *RedisCache) ObserveRun(ctx context.Context, report models.SyncReport) error {
	return c.WriteLastRun(ctx, report)
}

// ReadLastRun returns the latest report of job, or nil when none is stored
func (c *RedisCache) ReadLastRun(ctx context.Context, job models.Job) (*models.SyncReport, error) {
	data, err := c.client.Get(ctx, lastRunKey(job)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last run %s: %w", job, err)
	}

	var report models.SyncReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode last run %s: %w", job, err)
	}
	return &report, nil
}
