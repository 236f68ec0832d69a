package thesportsdb

import (
	"context"
	"log/slog"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/contracts"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// Adapter implements SportAdapter for the league-lookup provider
type Adapter struct {
	client *Client
	rules  normalize.Rules
	cache  contracts.LeagueCache
	logger *slog.Logger
}

// NewAdapter creates a league-lookup adapter. cache may be nil.
func NewAdapter(client *Client, rules normalize.Rules, cache contracts.LeagueCache, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		client: client,
		rules:  rules,
		cache:  cache,
		logger: logger.With("provider", string(config.ProviderTheSportsDB)),
	}
}

func (a *Adapter) Kind() config.ProviderKind {
	return config.ProviderTheSportsDB
}

func (a *Adapter) Source() models.Source {
	return models.SourceTheSportsDB
}

// FetchEvents resolves the configured league name to an id, then pulls its
// upcoming events. A lookup miss yields zero events and a warning.
func (a *Adapter) FetchEvents(ctx context.Context, sport config.SportConfig, now time.Time) []models.Event {
	log := a.logger.With("sport", sport.Key)

	leagueID, ok := a.resolveLeague(ctx, sport.SearchQuery, log)
	if !ok {
		return nil
	}

	raw, err := a.client.NextEvents(ctx, sport.Endpoint, leagueID)
	if err != nil {
		log.Error("fetch failed", "league_id", leagueID, "error", err)
		return nil
	}

	events := ParseEvents(raw, sport.Key, a.rules, now)
	log.Debug("fetched events", "league_id", leagueID, "count", len(events))
	return events
}

func (a *Adapter) resolveLeague(ctx context.Context, query string, log *slog.Logger) (string, bool) {
	if a.cache != nil {
		id, found, err := a.cache.GetLeagueID(ctx, query)
		if err != nil {
			log.Debug("league cache read failed", "error", err)
		} else if found {
			return id, true
		}
	}

	leagues, err := a.client.SearchLeagues(ctx, query)
	if err != nil {
		log.Error("league search failed", "query", query, "error", err)
		return "", false
	}

	id, ok := MatchLeague(leagues, query)
	if !ok {
		log.Warn("league not found", "query", query, "candidates", len(leagues))
		return "", false
	}

	if a.cache != nil {
		if err := a.cache.SetLeagueID(ctx, query, id); err != nil {
			log.Debug("league cache write failed", "error", err)
		}
	}
	return id, true
}
