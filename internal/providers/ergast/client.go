package ergast

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
)

// Race is one entry of the season schedule
type Race struct {
	Season   string  `json:"season"`
	Round    string  `json:"round"`
	RaceName string  `json:"raceName"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Circuit  Circuit `json:"Circuit"`
}

// Circuit is where a race is held
type Circuit struct {
	CircuitID   string `json:"circuitId"`
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type scheduleResponse struct {
	MRData struct {
		RaceTable struct {
			Races []Race `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// Client handles season schedule requests
type Client struct {
	http *providers.Client
}

// NewClient creates a season schedule client
func NewClient(cfg config.ProviderConfig, opts ...providers.Option) *Client {
	return &Client{
		http: providers.NewClient("ergast", cfg, opts...),
	}
}

// Season fetches every race of season
func (c *Client) Season(ctx context.Context, season int) ([]Race, error) {
	var resp scheduleResponse
	path := "/" + strconv.Itoa(season) + ".json"
	if err := c.http.GetJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching season %d: %w", season, err)
	}
	return resp.MRData.RaceTable.Races, nil
}
