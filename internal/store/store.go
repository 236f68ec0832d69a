package store

import (
	"context"
	"errors"
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrSeedProtected     = errors.New("event identity belongs to a seed row")
	ErrMissingIdentity   = errors.New("event has no external id")
	ErrDuplicateIdentity = errors.New("event identity already exists")
)

// EventStore defines the persistence operations the sync jobs and the read
// API depend on
type EventStore interface {
	// UpsertByIdentity matches on (externalId, sport): an existing non-seed
	// row is updated in place, otherwise a new row is inserted.
	UpsertByIdentity(ctx context.Context, event models.Event) (*models.Event, error)

	// DeleteWhere removes every row whose source satisfies p
	DeleteWhere(ctx context.Context, p SourcePredicate) (int64, error)

	// InsertMany inserts in order and stops at the first failure, returning
	// how many rows were written before it.
	InsertMany(ctx context.Context, events []models.Event) (int, error)

	// Find returns events matching f ordered by start
	Find(ctx context.Context, f Filter) ([]models.Event, error)

	// Get returns one event by generated id, or ErrNotFound
	Get(ctx context.Context, id string) (*models.Event, error)

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ EventStore = (*Postgres)(nil)
	_ EventStore = (*Memory)(nil)
)

// SourcePredicate selects rows by provenance
type SourcePredicate struct {
	Source models.Source
	Negate bool
}

// OnlySource matches rows whose source equals s
func OnlySource(s models.Source) SourcePredicate {
	return SourcePredicate{Source: s}
}

// AllExcept matches rows whose source differs from s
func AllExcept(s models.Source) SourcePredicate {
	return SourcePredicate{Source: s, Negate: true}
}

// Matches reports whether source satisfies the predicate
func (p SourcePredicate) Matches(source models.Source) bool {
	return (source == p.Source) != p.Negate
}

func (p SourcePredicate) String() string {
	if p.Negate {
		return "source != " + string(p.Source)
	}
	return "source = " + string(p.Source)
}

// Filter contains filters for querying events. Zero values do not filter.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Sports []string
	Source models.Source
}

// Matches reports whether e passes the filter. Bounds are inclusive on start.
func (f Filter) Matches(e models.Event) bool {
	if f.From != nil && e.Start.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Start.After(*f.To) {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if len(f.Sports) > 0 {
		for _, s := range f.Sports {
			if e.Sport == s {
				return true
			}
		}
		return false
	}
	return true
}
