package ergast

import (
	"fmt"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// ExternalID is the deterministic identity of a race within a season
func ExternalID(sport string, season int, round string) string {
	return fmt.Sprintf("%s-%d-%s", sport, season, round)
}

// ParseRace maps a scheduled race onto the canonical schema. ok is false when
// the race date is unusable.
func ParseRace(raw Race, sport string, season int, rules normalize.Rules, now time.Time) (models.Event, bool) {
	start, ok := rules.Start(raw.Date, raw.Time, now)
	if !ok {
		return models.Event{}, false
	}

	return models.Event{
		Title:      normalize.PickStr(raw.RaceName, normalize.UnknownEvent),
		Sport:      sport,
		Start:      start,
		End:        rules.End(start, ""),
		Venue:      raw.Circuit.CircuitName,
		Source:     models.SourceErgast,
		ExternalID: ExternalID(sport, season, raw.Round),
		Meta: normalize.CompactMeta(models.Meta{
			"season":    season,
			"round":     raw.Round,
			"locality":  raw.Circuit.Location.Locality,
			"country":   raw.Circuit.Location.Country,
			"circuitId": raw.Circuit.CircuitID,
		}),
	}, true
}
