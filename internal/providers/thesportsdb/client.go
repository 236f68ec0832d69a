package thesportsdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
)

// League is one entry of the league search envelope
type League struct {
	IDLeague  string `json:"idLeague"`
	StrLeague string `json:"strLeague"`
	StrSport  string `json:"strSport"`
}

type leaguesResponse struct {
	Countrys []League `json:"countrys"`
}

// Event is one entry of the next-events envelope
type Event struct {
	IDEvent          string `json:"idEvent"`
	StrEvent         string `json:"strEvent"`
	StrLeague        string `json:"strLeague"`
	IDLeague         string `json:"idLeague"`
	StrSeason        string `json:"strSeason"`
	StrHomeTeam      string `json:"strHomeTeam"`
	StrAwayTeam      string `json:"strAwayTeam"`
	StrDescriptionEN string `json:"strDescriptionEN"`
	DateEvent        string `json:"dateEvent"`
	StrTime          string `json:"strTime"`
	StrTimestamp     string `json:"strTimestamp"`
	StrVenue         string `json:"strVenue"`
	StrCountry       string `json:"strCountry"`
	IntRound         string `json:"intRound"`
	StrStatus        string `json:"strStatus"`
}

type eventsResponse struct {
	Events []Event `json:"events"`
}

// Client handles TheSportsDB API requests. The API key is a path segment.
type Client struct {
	http   *providers.Client
	apiKey string
}

// NewClient creates a TheSportsDB client
func NewClient(cfg config.ProviderConfig, opts ...providers.Option) *Client {
	return &Client{
		http:   providers.NewClient(string(config.ProviderTheSportsDB), cfg, opts...),
		apiKey: cfg.APIKey,
	}
}

func (c *Client) path(endpoint string) string {
	return "/" + c.apiKey + "/" + strings.TrimLeft(endpoint, "/")
}

// SearchLeagues runs the league name search
func (c *Client) SearchLeagues(ctx context.Context, query string) ([]League, error) {
	var resp leaguesResponse
	if err := c.http.GetJSON(ctx, c.path("search_all_leagues.php"), url.Values{"s": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("searching leagues %q: %w", query, err)
	}
	return resp.Countrys, nil
}

// NextEvents fetches upcoming events for a league from endpoint
// (eventsnext.php, eventsnextleague.php...).
func (c *Client) NextEvents(ctx context.Context, endpoint, leagueID string) ([]Event, error) {
	var resp eventsResponse
	if err := c.http.GetJSON(ctx, c.path(endpoint), url.Values{"id": {leagueID}}, &resp); err != nil {
		return nil, fmt.Errorf("fetching events for league %s: %w", leagueID, err)
	}
	return resp.Events, nil
}

// MatchLeague returns the id of the league whose name equals name exactly
func MatchLeague(leagues []League, name string) (string, bool) {
	for _, l := range leagues {
		if l.StrLeague == name && l.IDLeague != "" {
			return l.IDLeague, true
		}
	}
	return "", false
}
