package syncer

import (
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// FilterUpcoming keeps events starting strictly after runStart. Records whose
// date could not be parsed carry runStart itself and are dropped here.
func FilterUpcoming(events []models.Event, runStart time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Start.After(runStart) {
			out = append(out, e)
		}
	}
	return out
}

// DedupResult is the insert set plus what was discarded on the way
type DedupResult struct {
	Events              []models.Event
	DroppedNoExternalID int
	DroppedInvalid      int
	Duplicates          int
}

// Dedupe keeps the first event seen for each external id. Events without an
// external id, or failing validation, are dropped and counted.
func Dedupe(events []models.Event) DedupResult {
	res := DedupResult{Events: make([]models.Event, 0, len(events))}
	seen := make(map[string]bool, len(events))

	for _, e := range events {
		if e.ExternalID == "" {
			res.DroppedNoExternalID++
			continue
		}
		if seen[e.ExternalID] {
			res.Duplicates++
			continue
		}
		if err := e.Validate(); err != nil {
			res.DroppedInvalid++
			continue
		}
		seen[e.ExternalID] = true
		res.Events = append(res.Events, e)
	}
	return res
}
