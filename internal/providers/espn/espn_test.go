package espn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
	"github.com/rutvikdhakate/sports-calendar/internal/retry"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

var runStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

const scoreboard = `{"events":[
	{"id":"401772","name":"Boston Bruins at Toronto Maple Leafs","shortName":"BOS @ TOR",
	 "date":"2025-10-08T23:00Z","season":{"year":2026,"type":{"name":"Preseason"}},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"displayName":"Toronto Maple Leafs"}},
		{"homeAway":"away","team":{"displayName":"Boston Bruins"}}],
	  "venue":{"fullName":"Scotiabank Arena","address":{"city":"Toronto"}}}],
	 "status":{"type":{"name":"STATUS_SCHEDULED"}}},
	{"id":"401773","date":"2025-10-09T00:00Z","endDate":"2025-10-09T03:30Z","season":{"year":2026,"type":2},
	 "competitions":[{"competitors":[{"homeAway":"home","team":{"displayName":"Seattle Kraken"}}]}]}
]}`

func parseFixture(t *testing.T) []Event {
	t.Helper()
	var resp scoreboardResponse
	if err := json.Unmarshal([]byte(scoreboard), &resp); err != nil {
		t.Fatalf("unmarshal scoreboard: %v", err)
	}
	return resp.Events
}

func TestParseEvent(t *testing.T) {
	got := ParseEvent(parseFixture(t)[0], "hockey", normalize.DefaultRules(), runStart)

	if got.Title != "Toronto Maple Leafs vs Boston Bruins" {
		t.Errorf("Expected home vs away title, got '%s'", got.Title)
	}
	if want := time.Date(2025, 10, 8, 23, 0, 0, 0, time.UTC); !got.Start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, got.Start)
	}
	if got.End == nil || !got.End.Equal(got.Start.Add(2*time.Hour)) {
		t.Errorf("Expected start+2h, got %v", got.End)
	}
	if got.Category != "Preseason" {
		t.Errorf("Expected category 'Preseason', got '%s'", got.Category)
	}
	if got.Description != "Boston Bruins at Toronto Maple Leafs" {
		t.Errorf("Unexpected description '%s'", got.Description)
	}
	if got.Venue != "Scotiabank Arena" {
		t.Errorf("Expected venue, got '%s'", got.Venue)
	}
	if got.ExternalID != "401772" || got.Source != models.SourceESPN {
		t.Errorf("Unexpected identity %s/%s", got.ExternalID, got.Source)
	}
	if got.Meta["shortName"] != "BOS @ TOR" {
		t.Errorf("Expected shortName in meta, got %v", got.Meta)
	}
}

func TestParseEvent_Fallbacks(t *testing.T) {
	got := ParseEvent(parseFixture(t)[1], "hockey", normalize.DefaultRules(), runStart)

	if got.Title != "Seattle Kraken vs Unknown" {
		t.Errorf("Expected 'Seattle Kraken vs Unknown', got '%s'", got.Title)
	}
	if got.Category != "Regular Season" {
		t.Errorf("Expected 'Regular Season' for numeric season type, got '%s'", got.Category)
	}
	if got.Description != "No description available" {
		t.Errorf("Expected default description, got '%s'", got.Description)
	}
	if got.End == nil || !got.End.Equal(time.Date(2025, 10, 9, 3, 30, 0, 0, time.UTC)) {
		t.Errorf("Expected explicit endDate, got %v", got.End)
	}
}

func TestAdapter_FetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hockey/nhl/scoreboard" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(scoreboard))
	}))
	defer srv.Close()

	client := NewClient(config.ProviderConfig{BaseURL: srv.URL}, providers.WithRetryPolicy(retry.NewPolicy(1, time.Millisecond)))
	adapter := NewAdapter(client, normalize.DefaultRules(), nil)

	sport := config.SportConfig{Key: "hockey", Provider: config.ProviderESPN, Endpoint: "/hockey/nhl/scoreboard"}
	events := adapter.FetchEvents(context.Background(), sport, runStart)

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if adapter.Kind() != config.ProviderESPN {
		t.Errorf("Unexpected kind %s", adapter.Kind())
	}
}
