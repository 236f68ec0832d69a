package apisports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
)

// KeyHeader carries the API key on every request
const KeyHeader = "x-apisports-key"

// Fixture is one entry of the fixtures envelope
type Fixture struct {
	Fixture struct {
		ID    int64  `json:"id"`
		Date  string `json:"date"`
		Venue struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home Team `json:"home"`
		Away Team `json:"away"`
	} `json:"teams"`
}

// Team is one side of a fixture
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type fixturesResponse struct {
	Errors   json.RawMessage `json:"errors"`
	Response []Fixture       `json:"response"`
}

// Client handles API-Sports requests
type Client struct {
	http *providers.Client
}

// NewClient creates an API-Sports client authenticated by header
func NewClient(cfg config.ProviderConfig, opts ...providers.Option) *Client {
	opts = append([]providers.Option{providers.WithHeader(KeyHeader, cfg.APIKey)}, opts...)
	return &Client{
		http: providers.NewClient(string(config.ProviderAPISports), cfg, opts...),
	}
}

// Fixtures fetches endpoint (e.g. "/fixtures?league=39&season=2025")
func (c *Client) Fixtures(ctx context.Context, endpoint string) ([]Fixture, error) {
	var resp fixturesResponse
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching fixtures %s: %w", endpoint, err)
	}
	if upstreamErrors(resp.Errors) {
		return nil, fmt.Errorf("API-Sports reported errors: %s", string(resp.Errors))
	}
	return resp.Response, nil
}

// upstreamErrors reports whether the errors field is a non-empty object or array.
// API-Sports answers 200 with errors populated for bad keys and quota exhaustion.
func upstreamErrors(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return len(asMap) > 0
	}
	var asList []any
	if err := json.Unmarshal(raw, &asList); err == nil {
		return len(asList) > 0
	}
	return false
}
