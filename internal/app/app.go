// Package app wires configuration into the stores, caches and observers the
// command binaries share.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rutvikdhakate/sports-calendar/internal/cache"
	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/metrics"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/providers/ergast"
	"github.com/rutvikdhakate/sports-calendar/internal/publisher"
	"github.com/rutvikdhakate/sports-calendar/internal/registry"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/internal/syncer"
	"github.com/rutvikdhakate/sports-calendar/pkg/contracts"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// Deps holds the connections of one process
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	Store  store.EventStore
	DryRun bool

	redis *redis.Client
	cache *cache.RedisCache
}

// Open connects to the event store and, when configured, to Redis. A dry run
// uses an in-memory store. Redis is optional: a failed connection is logged
// and the process continues without league caching or run status.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, dryRun bool) (*Deps, error) {
	d := &Deps{Config: cfg, Logger: logger, DryRun: dryRun}

	if dryRun {
		d.Store = store.NewMemory()
		logger.Info("dry run: using in-memory event store")
	} else {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
		pg, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		d.Store = pg
		logger.Info("connected to postgres")
	}

	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			d.redis = client
			d.cache = cache.NewRedisCache(client, cfg.Sync.LeagueCacheTTL)
			logger.Info("connected to redis")
		}
	}

	return d, nil
}

// Close releases every connection
func (d *Deps) Close() {
	if d.redis != nil {
		d.redis.Close()
	}
	if d.Store != nil {
		d.Store.Close()
	}
}

// StatusReader returns the last-run reader, or nil without Redis
func (d *Deps) StatusReader() *cache.RedisCache {
	return d.cache
}

// LeagueCache returns the league-id cache, or nil without Redis
func (d *Deps) LeagueCache() contracts.LeagueCache {
	if d.cache == nil {
		return nil
	}
	return d.cache
}

// Lock takes the cross-process sync lock. Without Redis, or on a dry run,
// it always succeeds.
func (d *Deps) Lock(ctx context.Context, owner string) (cache.ReleaseFunc, error) {
	if d.DryRun || d.cache == nil {
		return func(context.Context) error { return nil }, nil
	}
	return d.cache.AcquireSyncLock(ctx, owner, cache.SyncLockTTL)
}

// Observers returns the run observers available to this process. Dry runs
// publish nothing.
func (d *Deps) Observers() []syncer.RunObserver {
	if d.DryRun {
		return nil
	}

	var obs []syncer.RunObserver
	if d.redis != nil {
		obs = append(obs, d.cache, publisher.NewStreamPublisher(d.redis))
	}
	if url := d.Config.Metrics.PushgatewayURL; url != "" {
		obs = append(obs, metrics.NewPusher(metrics.NewSyncMetrics(), url))
	}
	return obs
}

// Orchestrator builds the full-sync job from configuration
func (d *Deps) Orchestrator() (*syncer.Orchestrator, error) {
	rules, err := normalize.RulesFromConfig(d.Config.Sync)
	if err != nil {
		return nil, err
	}

	adapters, err := registry.NewFromConfig(d.Config, rules, d.LeagueCache(), d.Logger)
	if err != nil {
		return nil, err
	}

	return syncer.NewOrchestrator(d.Store, adapters, d.Config.Sports, d.Config.Sync.Delay,
		syncer.WithLogger(d.Logger),
		syncer.WithObservers(d.Observers()...),
		syncer.WithDryRun(d.DryRun),
	), nil
}

// F1Syncer builds the incremental season job from configuration
func (d *Deps) F1Syncer() (*syncer.F1Syncer, error) {
	rules, err := normalize.RulesFromConfig(d.Config.Sync)
	if err != nil {
		return nil, err
	}

	return syncer.NewF1Syncer(d.Store, ergast.NewClient(d.Config.Providers.Ergast), rules, "f1",
		syncer.WithLogger(d.Logger),
		syncer.WithObservers(d.Observers()...),
		syncer.WithDryRun(d.DryRun),
	), nil
}

// ExitCode maps a finished job to its process exit status. Only an aborted
// run is fatal; insert failures are already carried by the report, its
// logs and the success gauge.
func ExitCode(logger *slog.Logger, report models.SyncReport, err error) int {
	if err != nil {
		return 1
	}
	if !report.Succeeded() {
		logger.Warn("sync completed with errors", "job", report.Job, "insert_error", report.InsertError)
	}
	return 0
}
