package espn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
)

// Event is one entry of the scoreboard envelope
type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	EndDate      string        `json:"endDate"`
	Season       Season        `json:"season"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

// Season describes the event's season. type is an object on some
// scoreboards and a bare integer on others.
type Season struct {
	Year int             `json:"year"`
	Type json.RawMessage `json:"type"`
}

// TypeName returns season.type.name when type is an object
func (s Season) TypeName() string {
	if len(s.Type) == 0 {
		return ""
	}
	var typed struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(s.Type, &typed); err != nil {
		return ""
	}
	return typed.Name
}

// Competition holds the participants and venue
type Competition struct {
	Competitors []Competitor `json:"competitors"`
	Venue       struct {
		FullName string `json:"fullName"`
		Address  struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"address"`
	} `json:"venue"`
}

// Competitor is one side of a competition
type Competitor struct {
	HomeAway string `json:"homeAway"`
	Team     struct {
		DisplayName string `json:"displayName"`
		Name        string `json:"name"`
	} `json:"team"`
}

// Status is the event state
type Status struct {
	Type struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"type"`
}

type scoreboardResponse struct {
	Events []Event `json:"events"`
}

// Client handles ESPN API requests
type Client struct {
	http *providers.Client
}

// NewClient creates a new ESPN API client
func NewClient(cfg config.ProviderConfig, opts ...providers.Option) *Client {
	return &Client{
		http: providers.NewClient(string(config.ProviderESPN), cfg, opts...),
	}
}

// FetchScoreboard fetches whatever ESPN considers current for endpoint
// (e.g. "/hockey/nhl/scoreboard").
func (c *Client) FetchScoreboard(ctx context.Context, endpoint string) ([]Event, error) {
	var resp scoreboardResponse
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching scoreboard %s: %w", endpoint, err)
	}
	return resp.Events, nil
}
