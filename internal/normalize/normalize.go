// Package normalize holds the field rules shared by every provider normalizer.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const (
	UnknownEvent  = "Unknown Event"
	Unknown       = "Unknown"
	NoDescription = "No description available"
)

// Rules carries the substitution policy applied when upstream data is incomplete
type Rules struct {
	// FallbackClock is the time of day, as an offset from UTC midnight, used
	// when a record has a date but no time.
	FallbackClock time.Duration

	// DefaultDuration is added to start when a record has no end
	DefaultDuration time.Duration
}

// DefaultRules returns noon UTC and a two hour duration
func DefaultRules() Rules {
	return Rules{
		FallbackClock:   12 * time.Hour,
		DefaultDuration: models.DefaultDuration,
	}
}

// RulesFromConfig builds Rules from the sync section of the configuration
func RulesFromConfig(cfg config.SyncConfig) (Rules, error) {
	clock, err := cfg.FallbackClock()
	if err != nil {
		return Rules{}, err
	}
	rules := Rules{FallbackClock: clock, DefaultDuration: cfg.DefaultDuration}
	if rules.DefaultDuration <= 0 {
		rules.DefaultDuration = models.DefaultDuration
	}
	return rules, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00", // ESPN scoreboard
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

var clockLayouts = []string{
	"15:04:05Z07:00",
	"15:04Z07:00",
	"15:04:05",
	"15:04",
}

// ParseTimestamp parses a full date-time in the layouts upstreams emit.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp: %q", s)
}

// parseDate accepts a bare calendar date
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return t, err == nil
}

// parseClock returns the time of day as an offset from UTC midnight
func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Shift by the zone so "15:00:00+02:00" lands on 13:00 UTC
		_, offset := t.Zone()
		clock := time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second -
			time.Duration(offset)*time.Second
		return clock, true
	}
	return 0, false
}

// ExactStart combines date and clock with no fallbacks. ok is true only when
// both parse, or when date is itself a full timestamp.
func ExactStart(date, clock string) (time.Time, bool) {
	if day, isDate := parseDate(date); isDate {
		offset, hasClock := parseClock(clock)
		if !hasClock {
			return time.Time{}, false
		}
		return day.Add(offset).UTC(), true
	}
	if t, err := ParseTimestamp(date); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Start combines a date and an optional time of day into a UTC timestamp.
// date may also be a full timestamp, in which case clock is ignored. A missing
// or unparseable clock uses FallbackClock; an unusable date returns now with
// ok=false so callers can let the future filter drop the record.
func (r Rules) Start(date, clock string, now time.Time) (start time.Time, ok bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return now, false
	}

	if day, isDate := parseDate(date); isDate {
		offset, hasClock := parseClock(clock)
		if !hasClock {
			offset = r.FallbackClock
		}
		return day.Add(offset).UTC(), true
	}

	if t, err := ParseTimestamp(date); err == nil {
		return t, true
	}
	return now, false
}

// End parses an explicit end, falling back to start plus DefaultDuration
func (r Rules) End(start time.Time, end string) *time.Time {
	if end = strings.TrimSpace(end); end != "" {
		if t, err := ParseTimestamp(end); err == nil && !t.Before(start) {
			return &t
		}
	}
	t := start.Add(r.DefaultDuration)
	return &t
}

// Matchup renders "<home> vs <away>", substituting Unknown for a missing side
func Matchup(home, away string) string {
	return fmt.Sprintf("%s vs %s", PickStr(home, Unknown), PickStr(away, Unknown))
}

// ExternalID returns the native id, or a best-effort "<sport>-<title>-<source>"
func ExternalID(native, sport, title string, source models.Source) string {
	if native = strings.TrimSpace(native); native != "" {
		return native
	}
	return fmt.Sprintf("%s-%s-%s", sport, title, source)
}

// PickStr returns the first non-blank value, trimmed
func PickStr(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// CompactMeta drops empty values so the stored payload stays small
func CompactMeta(m models.Meta) models.Meta {
	out := make(models.Meta, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(val) == "" {
				continue
			}
		}
		out[k] = v
	}
	return out
}
