package thesportsdb

import (
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const noDescription = normalize.NoDescription + "."

// ParseEvent maps a TheSportsDB event onto the canonical schema
func ParseEvent(raw Event, sport string, rules normalize.Rules, now time.Time) models.Event {
	title := normalize.PickStr(raw.StrEvent, normalize.UnknownEvent)
	start := eventStart(raw, rules, now)

	return models.Event{
		Title:       title,
		Sport:       sport,
		Category:    normalize.PickStr(raw.StrLeague, normalize.Unknown),
		Start:       start,
		End:         rules.End(start, ""),
		Venue:       normalize.PickStr(raw.StrVenue),
		Description: normalize.PickStr(raw.StrDescriptionEN, noDescription),
		Source:      models.SourceTheSportsDB,
		ExternalID:  normalize.ExternalID(raw.IDEvent, sport, title, models.SourceTheSportsDB),
		Meta: normalize.CompactMeta(models.Meta{
			"leagueId": raw.IDLeague,
			"season":   raw.StrSeason,
			"round":    raw.IntRound,
			"home":     raw.StrHomeTeam,
			"away":     raw.StrAwayTeam,
			"country":  raw.StrCountry,
			"status":   raw.StrStatus,
		}),
	}
}

// eventStart prefers dateEvent with strTime, then strTimestamp, and only then
// the fallback clock or now.
func eventStart(raw Event, rules normalize.Rules, now time.Time) time.Time {
	if t, ok := normalize.ExactStart(raw.DateEvent, raw.StrTime); ok {
		return t
	}
	if t, err := normalize.ParseTimestamp(raw.StrTimestamp); err == nil {
		return t
	}
	start, _ := rules.Start(raw.DateEvent, raw.StrTime, now)
	return start
}

// ParseEvents maps a whole envelope
func ParseEvents(raw []Event, sport string, rules normalize.Rules, now time.Time) []models.Event {
	events := make([]models.Event, 0, len(raw))
	for _, r := range raw {
		events = append(events, ParseEvent(r, sport, rules, now))
	}
	return events
}
