package apisports

import (
	"context"
	"log/slog"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// Adapter implements SportAdapter for the fixture provider
type Adapter struct {
	client *Client
	rules  normalize.Rules
	logger *slog.Logger
}

// NewAdapter creates a fixture adapter
func NewAdapter(client *Client, rules normalize.Rules, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		client: client,
		rules:  rules,
		logger: logger.With("provider", string(config.ProviderAPISports)),
	}
}

func (a *Adapter) Kind() config.ProviderKind {
	return config.ProviderAPISports
}

func (a *Adapter) Source() models.Source {
	return models.SourceAPISports
}

// FetchEvents pulls fixtures for the configured endpoint
func (a *Adapter) FetchEvents(ctx context.Context, sport config.SportConfig, now time.Time) []models.Event {
	log := a.logger.With("sport", sport.Key)

	raw, err := a.client.Fixtures(ctx, sport.Endpoint)
	if err != nil {
		log.Error("fetch failed", "endpoint", sport.Endpoint, "error", err)
		return nil
	}

	events := ParseFixtures(raw, sport.Key, a.rules, now)
	log.Debug("fetched events", "count", len(events))
	return events
}
