package apisports

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// ParseFixture maps an API-Sports fixture onto the canonical schema
func ParseFixture(raw Fixture, sport string, rules normalize.Rules, now time.Time) models.Event {
	title := normalize.Matchup(raw.Teams.Home.Name, raw.Teams.Away.Name)
	start, _ := rules.Start(raw.Fixture.Date, "", now)

	var nativeID string
	if raw.Fixture.ID != 0 {
		nativeID = strconv.FormatInt(raw.Fixture.ID, 10)
	}

	var season any
	if raw.League.Season != 0 {
		season = raw.League.Season
	}

	return models.Event{
		Title:       title,
		Sport:       sport,
		Category:    raw.League.Name,
		Start:       start,
		End:         rules.End(start, ""),
		Venue:       raw.Fixture.Venue.Name,
		Description: fmt.Sprintf("%s - Round %s", raw.League.Name, raw.League.Round),
		Source:      models.SourceAPISports,
		ExternalID:  normalize.ExternalID(nativeID, sport, title, models.SourceAPISports),
		Meta: normalize.CompactMeta(models.Meta{
			"round":  raw.League.Round,
			"season": season,
			"city":   raw.Fixture.Venue.City,
			"home":   raw.Teams.Home.Name,
			"away":   raw.Teams.Away.Name,
			"status": raw.Fixture.Status.Short,
		}),
	}
}

// ParseFixtures maps a whole envelope
func ParseFixtures(raw []Fixture, sport string, rules normalize.Rules, now time.Time) []models.Event {
	events := make([]models.Event, 0, len(raw))
	for _, r := range raw {
		events = append(events, ParseFixture(r, sport, rules, now))
	}
	return events
}
