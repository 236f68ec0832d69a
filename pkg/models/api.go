package models

import "time"

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CalendarEvent is the shape the calendar widget consumes
type CalendarEvent struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

// ExtendedProps carries the non-display fields of a CalendarEvent
type ExtendedProps struct {
	Sport       string `json:"sport"`
	Venue       string `json:"venue,omitempty"`
	Meta        Meta   `json:"meta,omitempty"`
	Source      Source `json:"source"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToCalendarEvent converts e for the calendar widget. End is always set.
func (e Event) ToCalendarEvent() CalendarEvent {
	return CalendarEvent{
		ID:    e.ID,
		Title: e.Title,
		Start: e.Start,
		End:   e.EffectiveEnd(),
		ExtendedProps: ExtendedProps{
			Sport:       e.Sport,
			Venue:       e.Venue,
			Meta:        e.Meta,
			Source:      e.Source,
			Category:    e.Category,
			Description: e.Description,
		},
	}
}

// SportInfo describes one configured sport
type SportInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	SearchQuery string `json:"searchQuery,omitempty"`
}
