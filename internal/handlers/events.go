package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rutvikdhakate/sports-calendar/internal/ics"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// GetEvents returns events in calendar-widget shape
// Query params: from, to, sports (comma-separated), source
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter, err := parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	events, err := h.store.Find(ctx, filter)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve events", err)
		return
	}

	out := make([]models.CalendarEvent, 0, len(events))
	for _, e := range events {
		out = append(out, e.ToCalendarEvent())
	}

	h.logger.Debug("served events", "count", len(out), "sports", filter.Sports)
	respondJSON(w, http.StatusOK, out)
}

// GetEvent retrieves a single event by ID
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.respondError(w, http.StatusBadRequest, "event id is required", nil)
		return
	}

	event, err := h.store.Get(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "event not found", nil)
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve event", err)
		return
	}

	respondJSON(w, http.StatusOK, event.ToCalendarEvent())
}

// GetCalendar serves the filtered events as an iCalendar feed
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter, err := parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	events, err := h.store.Find(ctx, filter)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve events", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sports-calendar.ics"`)
	if err := ics.Write(w, events, "Sports Calendar", h.now()); err != nil {
		h.logger.Error("error writing calendar", "error", err)
	}
}

func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	var f store.Filter

	if v := q.Get("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return f, fmt.Errorf("invalid from: %q", v)
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return f, fmt.Errorf("invalid to: %q", v)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, errors.New("to must not be before from")
	}

	f.Sports = models.SportList(q.Get("sports"))
	f.Source = models.Source(q.Get("source"))
	return f, nil
}

// parseTimeParam accepts full timestamps or bare dates (midnight UTC)
func parseTimeParam(v string) (time.Time, error) {
	if t, err := normalize.ParseTimestamp(v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", v)
}
