package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// Memory is an in-process EventStore used for dry runs and tests. It honours
// the same identity and seed rules as Postgres.
type Memory struct {
	mu     sync.RWMutex
	events map[string]models.Event
	now    func() time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		events: make(map[string]models.Event),
		now:    time.Now,
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	return nil
}

// findIdentity returns the row holding (externalID, sport). Caller holds mu.
func (m *Memory) findIdentity(externalID, sport string) (models.Event, bool) {
	for _, e := range m.events {
		if e.ExternalID == externalID && e.Sport == sport {
			return e, true
		}
	}
	return models.Event{}, false
}

func (m *Memory) UpsertByIdentity(ctx context.Context, event models.Event) (*models.Event, error) {
	if event.ExternalID == "" {
		return nil, ErrMissingIdentity
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("upsert %s/%s: %w", event.Sport, event.ExternalID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if existing, ok := m.findIdentity(event.ExternalID, event.Sport); ok {
		if existing.Source.IsSeed() {
			return nil, ErrSeedProtected
		}
		event.ID = existing.ID
		event.CreatedAt = existing.CreatedAt
	}

	event = copyEvent(event.WithDefaults(now))
	m.events[event.ID] = event

	out := copyEvent(event)
	return &out, nil
}

func (m *Memory) DeleteWhere(ctx context.Context, p SourcePredicate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, e := range m.events {
		if p.Matches(e.Source) {
			delete(m.events, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) InsertMany(ctx context.Context, events []models.Event) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := event.Validate(); err != nil {
			return i, fmt.Errorf("insert event %d: %w", i, err)
		}
		if event.ExternalID != "" {
			if _, dup := m.findIdentity(event.ExternalID, event.Sport); dup {
				return i, fmt.Errorf("insert event %d (%s/%s): %w", i, event.Sport, event.ExternalID, ErrDuplicateIdentity)
			}
		}

		event = copyEvent(event.WithDefaults(now))
		if _, taken := m.events[event.ID]; taken {
			return i, fmt.Errorf("insert event %d: id %s: %w", i, event.ID, ErrDuplicateIdentity)
		}
		m.events[event.ID] = event
	}
	return len(events), nil
}

func (m *Memory) Find(ctx context.Context, f Filter) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		if f.Matches(e) {
			out = append(out, copyEvent(e))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyEvent(e)
	return &out, nil
}

// Len returns the number of stored rows
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

func copyEvent(e models.Event) models.Event {
	if e.Meta != nil {
		meta := make(models.Meta, len(e.Meta))
		for k, v := range e.Meta {
			meta[k] = v
		}
		e.Meta = meta
	}
	if e.End != nil {
		end := *e.End
		e.End = &end
	}
	return e
}
