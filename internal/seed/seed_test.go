package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/logging"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/internal/testutil"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func TestRun_TwiceLeavesExactlyTheSampleSet(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	for i := 0; i < 2; i++ {
		res, err := Run(ctx, mem, logging.Discard())
		if err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
		if res.Inserted != 5 {
			t.Errorf("Run() #%d inserted %d, want 5", i+1, res.Inserted)
		}
	}

	rows, _ := mem.Find(ctx, store.Filter{Source: models.SourceSeed})
	if len(rows) != 5 {
		t.Fatalf("Expected exactly 5 seed rows, got %d", len(rows))
	}

	titles := map[string]bool{}
	for _, r := range rows {
		titles[r.Title] = true
	}
	for _, e := range Events() {
		if !titles[e.Title] {
			t.Errorf("Missing seed event %q", e.Title)
		}
	}
}

func TestRun_LeavesSyncedRowsAlone(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	synced := testutil.MockEvent("soccer", "e1", models.SourceESPN, time.Now().Add(24*time.Hour))
	mem.InsertMany(ctx, []models.Event{synced})

	res, err := Run(ctx, mem, logging.Discard())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Deleted != 0 {
		t.Errorf("Expected no seed rows deleted on first run, got %d", res.Deleted)
	}
	if mem.Len() != 6 {
		t.Errorf("Expected 5 seed rows plus the synced one, got %d", mem.Len())
	}
}

func TestEvents_AreValid(t *testing.T) {
	for _, e := range Events() {
		if err := e.Validate(); err != nil {
			t.Errorf("%q: %v", e.Title, err)
		}
		if !e.Source.IsSeed() {
			t.Errorf("%q: expected seed source", e.Title)
		}
		if e.End == nil || !e.End.After(e.Start) {
			t.Errorf("%q: expected an end after start", e.Title)
		}
	}
}
