package espn

import (
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const regularSeason = "Regular Season"

// teamName finds the competitor on the given side
func teamName(competitors []Competitor, side string) string {
	for _, c := range competitors {
		if c.HomeAway == side {
			return normalize.PickStr(c.Team.DisplayName, c.Team.Name)
		}
	}
	return ""
}

// ParseEvent maps a scoreboard event onto the canonical schema
func ParseEvent(raw Event, sport string, rules normalize.Rules, now time.Time) models.Event {
	var comp Competition
	if len(raw.Competitions) > 0 {
		comp = raw.Competitions[0]
	}

	home := teamName(comp.Competitors, "home")
	away := teamName(comp.Competitors, "away")
	title := normalize.Matchup(home, away)

	start, _ := rules.Start(raw.Date, "", now)

	var season any
	if raw.Season.Year != 0 {
		season = raw.Season.Year
	}

	return models.Event{
		Title:       title,
		Sport:       sport,
		Category:    normalize.PickStr(raw.Season.TypeName(), regularSeason),
		Start:       start,
		End:         rules.End(start, raw.EndDate),
		Venue:       comp.Venue.FullName,
		Description: normalize.PickStr(raw.Name, normalize.NoDescription),
		Source:      models.SourceESPN,
		ExternalID:  normalize.ExternalID(raw.ID, sport, title, models.SourceESPN),
		Meta: normalize.CompactMeta(models.Meta{
			"shortName": raw.ShortName,
			"home":      home,
			"away":      away,
			"status":    raw.Status.Type.Name,
			"city":      comp.Venue.Address.City,
			"season":    season,
		}),
	}
}

// ParseEvents maps a whole scoreboard
func ParseEvents(raw []Event, sport string, rules normalize.Rules, now time.Time) []models.Event {
	events := make([]models.Event, 0, len(raw))
	for _, r := range raw {
		events = append(events, ParseEvent(r, sport, rules, now))
	}
	return events
}
