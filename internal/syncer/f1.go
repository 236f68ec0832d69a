package syncer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/providers/ergast"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// SeasonFetcher returns every race of a season
type SeasonFetcher interface {
	Season(ctx context.Context, season int) ([]ergast.Race, error)
}

// F1Syncer upserts one season's schedule race by race. It never bulk-deletes,
// so it is safe to run repeatedly and alongside the full sync.
type F1Syncer struct {
	store   store.EventStore
	fetcher SeasonFetcher
	rules   normalize.Rules
	sport   string
	options
}

// NewF1Syncer creates an incremental season syncer for sport (usually "f1")
func NewF1Syncer(st store.EventStore, fetcher SeasonFetcher, rules normalize.Rules, sport string, opts ...Option) *F1Syncer {
	return &F1Syncer{
		store:   st,
		fetcher: fetcher,
		rules:   rules,
		sport:   models.CanonicalSport(sport),
		options: buildOptions(opts),
	}
}

// Run syncs season; zero means the current UTC year. A fetch failure or the
// first store write failure aborts the run. Races held by seed rows are skipped.
func (s *F1Syncer) Run(ctx context.Context, season int) (report *models.SyncReport, err error) {
	now := s.now().UTC()
	if season <= 0 {
		season = now.Year()
	}

	report = &models.SyncReport{
		RunID:     uuid.New().String(),
		Job:       models.JobSyncF1,
		DryRun:    s.dryRun,
		StartedAt: now,
	}
	log := s.logger.With("run_id", report.RunID, "job", string(report.Job), "season", season)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in f1 sync: %v", r)
			log.Error("PANIC", "panic", r, "stack", string(debug.Stack()))
		}
		report.FinishedAt = s.now().UTC()
		if err != nil {
			report.Error = err.Error()
		}
		LogReport(log, *report)
		notify(ctx, log, s.observers, *report)
	}()

	if err := s.store.Ping(ctx); err != nil {
		return report, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	races, err := s.fetcher.Season(ctx, season)
	if err != nil {
		return report, err
	}
	report.Processed = len(races)

	for _, race := range races {
		event, ok := ergast.ParseRace(race, s.sport, season, s.rules, now)
		if !ok {
			report.Failed++
			log.Warn("skipping race without a usable date", "round", race.Round, "race", race.RaceName)
			continue
		}

		if _, err := s.store.UpsertByIdentity(ctx, event); err != nil {
			if errors.Is(err, store.ErrSeedProtected) {
				report.Failed++
				log.Warn("race identity held by seed row", "external_id", event.ExternalID)
				continue
			}
			return report, fmt.Errorf("upsert %s: %w", event.ExternalID, err)
		}
		report.Upserted++
	}
	report.Unique = report.Upserted

	return report, nil
}
