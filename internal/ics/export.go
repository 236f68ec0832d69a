// Package ics renders stored events as an iCalendar feed.
package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const (
	ProductID = "-//sports-calendar//events//EN"
	uidDomain = "sports-calendar"
)

// Build creates a published calendar containing one VEVENT per event
func Build(events []models.Event, name string, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := now.UTC()
	for _, e := range events {
		vevent := cal.AddEvent(e.ID + "@" + uidDomain)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(e.Start.UTC())
		vevent.SetEndAt(e.EffectiveEnd().UTC())
		vevent.SetSummary(e.Title)
		vevent.AddProperty(ical.ComponentPropertyCategories, models.DisplayName(e.Sport))
		if e.Venue != "" {
			vevent.SetLocation(e.Venue)
		}
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
		if !e.UpdatedAt.IsZero() {
			vevent.SetModifiedAt(e.UpdatedAt.UTC())
		}
	}
	return cal
}

// Write serializes the calendar for events to w
func Write(w io.Writer, events []models.Event, name string, now time.Time) error {
	return Build(events, name, now).SerializeTo(w)
}
