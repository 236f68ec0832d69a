package contracts

import (
	"context"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// SportAdapter is the pluggable interface for an upstream provider variant
type SportAdapter interface {
	// Identification
	Kind() config.ProviderKind // "thesportsdb", "apisports", "espn"
	Source() models.Source     // literal stamped on every event

	// FetchEvents retrieves and normalizes upcoming events for one configured
	// sport. Transport and lookup failures are logged and yield an empty slice;
	// they never abort the caller.
	FetchEvents(ctx context.Context, sport config.SportConfig, now time.Time) []models.Event
}

// LeagueCache remembers league-lookup results between runs
type LeagueCache interface {
	GetLeagueID(ctx context.Context, query string) (id string, found bool, err error)
	SetLeagueID(ctx context.Context, query, id string) error
}
