package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDuration is assumed for events that carry no end time
const DefaultDuration = 2 * time.Hour

// Source tags the provenance of an event. It partitions identity: synced
// rows never overwrite seeded rows and vice versa.
type Source string

const (
	SourceSeed        Source = "seed"
	SourceTheSportsDB Source = "TheSportsDB"
	SourceAPISports   Source = "API-Sports"
	SourceESPN        Source = "ESPN"
	SourceErgast      Source = "ergast"
)

// IsSeed reports whether the source is the hand-curated sentinel
func (s Source) IsSeed() bool {
	return s == SourceSeed
}

// Meta is the open-ended provider payload (round, locality, teams...)
type Meta map[string]any

// Event is the canonical, storage-ready representation of a sporting event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Sport       string     `json:"sport"`              // "f1", "soccer"
	Category    string     `json:"category,omitempty"` // league / competition label
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	Description string     `json:"description,omitempty"`
	Source      Source     `json:"source"`
	ExternalID  string     `json:"externalId,omitempty"` // unique within (source, sport)
	Meta        Meta       `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

var (
	ErrMissingTitle  = errors.New("event title is required")
	ErrMissingSport  = errors.New("event sport is required")
	ErrInvalidStart  = errors.New("event start is not a valid timestamp")
	ErrMissingSource = errors.New("event source is required")
)

// Validate checks the fields every persisted event must carry
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	if e.Sport == "" {
		return ErrMissingSport
	}
	if e.Sport != CanonicalSport(e.Sport) {
		return fmt.Errorf("sport %q is not canonical", e.Sport)
	}
	if e.Start.IsZero() {
		return ErrInvalidStart
	}
	if e.Source == "" {
		return ErrMissingSource
	}
	return nil
}

// EffectiveEnd returns End, or Start plus DefaultDuration when End is absent
func (e Event) EffectiveEnd() time.Time {
	if e.End != nil {
		return *e.End
	}
	return e.Start.Add(DefaultDuration)
}

// WithDefaults fills the fields the store owns on insert
func (e Event) WithDefaults(now time.Time) Event {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Meta == nil {
		e.Meta = Meta{}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	e.Start = e.Start.UTC()
	if e.End != nil {
		end := e.End.UTC()
		e.End = &end
	}
	return e
}

// CanonicalSport folds a sport key to lowercase and replaces whitespace runs
// with a single dash, so "American Football" becomes "american-football".
func CanonicalSport(s string) string {
	folded := cases.Fold().String(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(folded, unicode.IsSpace), "-")
}

// SportList parses a comma-separated sport list into canonical keys
func SportList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var sports []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		key := CanonicalSport(part)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		sports = append(sports, key)
	}
	return sports
}

// DisplayName renders a sport key for humans ("e-sports" -> "E Sports")
func DisplayName(sport string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(sport, "-", " "))
}
