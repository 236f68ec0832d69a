package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func event(externalID, sport string, source models.Source, start time.Time) models.Event {
	return models.Event{
		Title:      "Event " + externalID,
		Sport:      sport,
		Start:      start,
		Source:     source,
		ExternalID: externalID,
	}
}

var base = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func TestMemory_UpsertByIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, err := m.UpsertByIdentity(ctx, event("f1-2025-16", "f1", models.SourceErgast, base))
	if err != nil {
		t.Fatalf("UpsertByIdentity() error = %v", err)
	}

	updated := event("f1-2025-16", "f1", models.SourceErgast, base.Add(time.Hour))
	updated.Title = "Italian Grand Prix"
	second, err := m.UpsertByIdentity(ctx, updated)
	if err != nil {
		t.Fatalf("UpsertByIdentity() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected update in place, ids %s != %s", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected createdAt preserved")
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", m.Len())
	}

	got, _ := m.Get(ctx, first.ID)
	if got.Title != "Italian Grand Prix" || !got.Start.Equal(base.Add(time.Hour)) {
		t.Errorf("Expected mutable fields updated, got %+v", got)
	}
}

func TestMemory_UpsertRefusesSeedRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.InsertMany(ctx, []models.Event{event("x1", "f1", models.SourceSeed, base)}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	_, err := m.UpsertByIdentity(ctx, event("x1", "f1", models.SourceErgast, base))
	if !errors.Is(err, ErrSeedProtected) {
		t.Fatalf("Expected ErrSeedProtected, got %v", err)
	}

	rows, _ := m.Find(ctx, Filter{})
	if len(rows) != 1 || rows[0].Source != models.SourceSeed {
		t.Errorf("Expected seed row untouched, got %+v", rows)
	}
}

func TestMemory_UpsertRequiresIdentity(t *testing.T) {
	if _, err := NewMemory().UpsertByIdentity(context.Background(), event("", "f1", models.SourceErgast, base)); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity, got %v", err)
	}
}

func TestMemory_DeleteWhere(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.InsertMany(ctx, []models.Event{
		event("", "f1", models.SourceSeed, base),
		event("1", "f1", models.SourceTheSportsDB, base),
		event("2", "soccer", models.SourceESPN, base),
	})

	n, err := m.DeleteWhere(ctx, AllExcept(models.SourceSeed))
	if err != nil {
		t.Fatalf("DeleteWhere() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deletions, got %d", n)
	}

	rows, _ := m.Find(ctx, Filter{})
	if len(rows) != 1 || !rows[0].Source.IsSeed() {
		t.Errorf("Expected only the seed row to remain, got %+v", rows)
	}

	if n, _ := m.DeleteWhere(ctx, OnlySource(models.SourceSeed)); n != 1 || m.Len() != 0 {
		t.Errorf("Expected seed row deleted, n=%d len=%d", n, m.Len())
	}
}

func TestMemory_InsertManyStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	batch := []models.Event{
		event("1", "f1", models.SourceESPN, base),
		event("2", "f1", models.SourceESPN, base),
		{Title: "", Sport: "f1", Start: base, Source: models.SourceESPN, ExternalID: "3"},
		event("4", "f1", models.SourceESPN, base),
	}

	n, err := m.InsertMany(ctx, batch)
	if !errors.Is(err, models.ErrMissingTitle) {
		t.Fatalf("Expected ErrMissingTitle, got %v", err)
	}
	if n != 2 || m.Len() != 2 {
		t.Errorf("Expected 2 rows written before the failure, n=%d len=%d", n, m.Len())
	}

	if _, err := m.InsertMany(ctx, []models.Event{event("1", "f1", models.SourceESPN, base)}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("Expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestMemory_Find(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.InsertMany(ctx, []models.Event{
		event("c", "soccer", models.SourceESPN, base.Add(48*time.Hour)),
		event("a", "f1", models.SourceTheSportsDB, base),
		event("b", "hockey", models.SourceESPN, base.Add(24*time.Hour)),
		event("", "cricket", models.SourceSeed, base.Add(72*time.Hour)),
	})

	all, _ := m.Find(ctx, Filter{})
	if len(all) != 4 || all[0].ExternalID != "a" || all[3].Sport != "cricket" {
		t.Errorf("Expected all rows ordered by start, got %+v", all)
	}

	from := base.Add(24 * time.Hour)
	to := base.Add(48 * time.Hour)
	windowed, _ := m.Find(ctx, Filter{From: &from, To: &to})
	if len(windowed) != 2 {
		t.Errorf("Expected inclusive window to return 2 rows, got %d", len(windowed))
	}

	sports, _ := m.Find(ctx, Filter{Sports: []string{"f1", "cricket"}})
	if len(sports) != 2 {
		t.Errorf("Expected 2 rows for sport set, got %d", len(sports))
	}

	seeds, _ := m.Find(ctx, Filter{Source: models.SourceSeed})
	if len(seeds) != 1 {
		t.Errorf("Expected 1 seed row, got %d", len(seeds))
	}
}

func TestMemory_GetNotFound(t *testing.T) {
	if _, err := NewMemory().Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSourcePredicate(t *testing.T) {
	if !OnlySource(models.SourceSeed).Matches(models.SourceSeed) || OnlySource(models.SourceSeed).Matches(models.SourceESPN) {
		t.Error("OnlySource mismatch")
	}
	if AllExcept(models.SourceSeed).Matches(models.SourceSeed) || !AllExcept(models.SourceSeed).Matches(models.SourceESPN) {
		t.Error("AllExcept mismatch")
	}
}
