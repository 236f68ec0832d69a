package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(fmt.Sprintf("seed: bad timestamp %q: %v", s, err))
	}
	return t
}

func ptr(t time.Time) *time.Time {
	return &t
}

// Events returns the fixed sample set loaded by the seed job
func Events() []models.Event {
	return []models.Event{
		{
			Title: "Italian Grand Prix", Sport: "f1",
			Start: at("2025-09-07T13:00:00Z"), End: ptr(at("2025-09-07T15:00:00Z")),
			Venue: "Monza", Source: models.SourceSeed,
		},
		{
			Title: "MotoGP Qatar", Sport: "motogp",
			Start: at("2025-03-16T16:00:00Z"), End: ptr(at("2025-03-16T18:00:00Z")),
			Venue: "Lusail", Source: models.SourceSeed,
		},
		{
			Title: "WEC 6 Hours of Spa", Sport: "wec",
			Start: at("2025-05-10T10:00:00Z"), End: ptr(at("2025-05-10T16:00:00Z")),
			Venue: "Spa", Source: models.SourceSeed,
		},
		{
			Title: "IND vs AUS ODI", Sport: "cricket",
			Start: at("2025-11-15T09:00:00Z"), End: ptr(at("2025-11-15T17:00:00Z")),
			Venue: "Mumbai", Source: models.SourceSeed,
			Meta: models.Meta{"format": "ODI"},
		},
		{
			Title: "UCL Group Match", Sport: "football",
			Start: at("2025-10-21T19:00:00Z"), End: ptr(at("2025-10-21T21:00:00Z")),
			Venue: "Madrid", Source: models.SourceSeed,
		},
	}
}

// Result reports what a reseed changed
type Result struct {
	Deleted  int64
	Inserted int
}

// Run replaces every seed row with the sample set. Synced rows are untouched.
func Run(ctx context.Context, st store.EventStore, logger *slog.Logger) (Result, error) {
	var res Result

	deleted, err := st.DeleteWhere(ctx, store.OnlySource(models.SourceSeed))
	if err != nil {
		return res, fmt.Errorf("clear seed events: %w", err)
	}
	res.Deleted = deleted

	inserted, err := st.InsertMany(ctx, Events())
	res.Inserted = inserted
	if err != nil {
		return res, fmt.Errorf("insert seed events: %w", err)
	}

	logger.Info("seeded events", "deleted", res.Deleted, "inserted", res.Inserted)
	return res, nil
}
