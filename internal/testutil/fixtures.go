package testutil

import (
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// MockEvent creates a test event with a two hour window
func MockEvent(sport, externalID string, source models.Source, start time.Time) models.Event {
	start = start.UTC().Truncate(time.Second)
	return models.Event{
		Title:       "Test Event " + externalID,
		Sport:       sport,
		Category:    "Test League",
		Start:       start,
		End:         ptrTime(start.Add(2 * time.Hour)),
		Venue:       "Test Arena",
		Description: "Fixture event",
		Source:      source,
		ExternalID:  externalID,
		Meta:        models.Meta{"round": "1"},
	}
}

// MockEventWith creates a test event and applies overrides
func MockEventWith(sport, externalID string, source models.Source, start time.Time, overrides ...func(*models.Event)) models.Event {
	e := MockEvent(sport, externalID, source, start)
	for _, override := range overrides {
		override(&e)
	}
	return e
}

// Helper functions
func ptrTime(t time.Time) *time.Time {
	return &t
}
