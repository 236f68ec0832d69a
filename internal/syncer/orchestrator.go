package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/pkg/contracts"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

var ErrStoreUnavailable = errors.New("event store unavailable")

// AdapterSource resolves the adapter serving a provider kind
type AdapterSource interface {
	Get(kind config.ProviderKind) (contracts.SportAdapter, error)
}

// Option configures an Orchestrator or F1Syncer
type Option func(*options)

type options struct {
	logger    *slog.Logger
	observers []RunObserver
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	dryRun    bool
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObservers registers observers notified after each run
func WithObservers(obs ...RunObserver) Option {
	return func(o *options) { o.observers = append(o.observers, obs...) }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSleep replaces the inter-sport wait
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = sleep }
}

// WithDryRun marks reports as produced against a scratch store
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Orchestrator runs the full sync: clear synced rows, fetch every configured
// sport in order, keep upcoming events, dedupe, insert.
type Orchestrator struct {
	store    store.EventStore
	adapters AdapterSource
	sports   []config.SportConfig
	delay    time.Duration
	options
}

// NewOrchestrator creates a full-sync orchestrator
func NewOrchestrator(st store.EventStore, adapters AdapterSource, sports []config.SportConfig, delay time.Duration, opts ...Option) *Orchestrator {
	return &Orchestrator{
		store:    st,
		adapters: adapters,
		sports:   sports,
		delay:    delay,
		options:  buildOptions(opts),
	}
}

// Run performs one full sync. A non-nil error means the run aborted; insert
// failures are recorded on the report and do not produce an error. The
// report is always returned.
func (o *Orchestrator) Run(ctx context.Context) (report *models.SyncReport, err error) {
	runStart := o.now().UTC()
	report = &models.SyncReport{
		RunID:     uuid.New().String(),
		Job:       models.JobSyncEvents,
		DryRun:    o.dryRun,
		StartedAt: runStart,
	}
	log := o.logger.With("run_id", report.RunID, "job", string(report.Job))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in sync run: %v", r)
			log.Error("PANIC", "panic", r, "stack", string(debug.Stack()))
		}
		report.FinishedAt = o.now().UTC()
		if err != nil {
			report.Error = err.Error()
		}
		LogReport(log, *report)
		notify(ctx, log, o.observers, *report)
	}()

	if err := o.store.Ping(ctx); err != nil {
		return report, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	deleted, err := o.store.DeleteWhere(ctx, store.AllExcept(models.SourceSeed))
	if err != nil {
		return report, fmt.Errorf("clear synced events: %w", err)
	}
	report.Deleted = deleted
	log.Info("cleared synced events", "deleted", deleted)

	var upcoming []models.Event
	for i, sport := range o.sports {
		if i > 0 {
			if err := o.sleep(ctx, o.delay); err != nil {
				return report, fmt.Errorf("sync interrupted before %s: %w", sport.Key, err)
			}
		}

		result, events := o.syncSport(ctx, sport, runStart, log)
		report.PerSport = append(report.PerSport, result)
		upcoming = append(upcoming, events...)
	}
	report.Processed = len(upcoming)

	deduped := Dedupe(upcoming)
	report.Unique = len(deduped.Events)
	report.DroppedNoExternalID = deduped.DroppedNoExternalID
	report.DroppedInvalid = deduped.DroppedInvalid
	report.Duplicates = deduped.Duplicates

	if len(deduped.Events) == 0 {
		log.Warn("no upcoming events to insert")
		return report, nil
	}

	inserted, err := o.store.InsertMany(ctx, deduped.Events)
	report.Inserted = inserted
	if err != nil {
		report.InsertError = err.Error()
		log.Error("insert failed", "inserted", inserted, "of", len(deduped.Events), "error", err)
	}

	return report, nil
}

// syncSport fetches one sport; adapter failures yield an empty contribution
func (o *Orchestrator) syncSport(ctx context.Context, sport config.SportConfig, runStart time.Time, log *slog.Logger) (models.SportResult, []models.Event) {
	started := o.now()
	result := models.SportResult{Sport: sport.Key, Provider: string(sport.Provider)}

	adapter, err := o.adapters.Get(sport.Provider)
	if err != nil {
		log.Error("no adapter for sport", "sport", sport.Key, "error", err)
		return result, nil
	}

	fetched := adapter.FetchEvents(ctx, sport, runStart)
	upcoming := FilterUpcoming(fetched, runStart)

	result.Fetched = len(fetched)
	result.Upcoming = len(upcoming)
	result.Duration = o.now().Sub(started)

	log.Info("fetched sport", "sport", sport.Key, "provider", string(sport.Provider),
		"fetched", result.Fetched, "upcoming", result.Upcoming)
	return result, upcoming
}
