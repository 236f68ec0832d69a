package apisports

import (
	"context"
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

func TestParseFixture(t *testing.T) {
	var raw Fixture
	raw.Fixture.ID = 1035037
	raw.Fixture.Date = "2025-08-15T19:00:00+00:00"
	raw.Fixture.Venue.Name = "Anfield"
	raw.League.Name = "Premier League"
	raw.League.Round = "Regular Season - 1"
	raw.League.Season = 2025
	raw.Teams.Home.Name = "Liverpool"
	raw.Teams.Away.Name = "Bournemouth"

	got := ParseFixture(raw, "soccer", normalize.DefaultRules(), runStart)

	if got.Title != "Liverpool vs Bournemouth" {
		t.Errorf("Expected matchup title, got '%s'", got.Title)
	}
	if got.Sport != "soccer" {
		t.Errorf("Expected configured sport key, got '%s'", got.Sport)
	}
	if want := time.Date(2025, 8, 15, 19, 0, 0, 0, time.UTC); !got.Start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, got.Start)
	}
	if got.End == nil || got.End.Sub(got.Start) != 2*time.Hour {
		t.Errorf("Expected 2h default duration, got %v", got.End)
	}
	if got.Description != "Premier League - Round Regular Season - 1" {
		t.Errorf("Unexpected description '%s'", got.Description)
	}
	if got.ExternalID != "1035037" {
		t.Errorf("Expected externalId '1035037', got '%s'", got.ExternalID)
	}
	if got.Source != models.SourceAPISports {
		t.Errorf("Expected source API-Sports, got '%s'", got.Source)
	}
	if got.Meta["season"] != 2025 {
		t.Errorf("Expected season in meta, got %v", got.Meta)
	}
}

func TestParseFixture_MissingAwayTeam(t *testing.T) {
	var raw Fixture
	raw.Fixture.Date = "2025-08-16T14:00:00+00:00"
	raw.Teams.Home.Name = "Arsenal"

	got := ParseFixture(raw, "soccer", normalize.DefaultRules(), runStart)

	if got.Title != "Arsenal vs Unknown" {
		t.Errorf("Expected 'Arsenal vs Unknown', got '%s'", got.Title)
	}
	if got.ExternalID != "soccer-Arsenal vs Unknown-API-Sports" {
		t.Errorf("Expected synthesized externalId, got '%s'", got.ExternalID)
	}
}

func newAdapter(srv *httptest.Server) *Adapter {
	client := NewClient(
		config.ProviderConfig{BaseURL: srv.URL, APIKey: "secret"},
		providers.WithRetryPolicy(retry.NewPolicy(1, time.Millisecond)),
	)
	return NewAdapter(client, normalize.DefaultRules(), nil)
}

func TestAdapter_FetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(KeyHeader) != "secret" {
			t.Errorf("Expected %s header, got %q", KeyHeader, r.Header.Get(KeyHeader))
		}
		if r.URL.Path != "/fixtures" || r.URL.Query().Get("league") != "39" {
			t.Errorf("Unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`{"errors":[],"response":[
			{"fixture":{"id":1,"date":"2025-08-15T19:00:00+00:00"},"league":{"name":"Premier League","round":"1"},
			 "teams":{"home":{"name":"Liverpool"},"away":{"name":"Bournemouth"}}}
		]}`))
	}))
	defer srv.Close()

	sport := config.SportConfig{Key: "soccer", Provider: config.ProviderAPISports, Endpoint: "/fixtures?league=39&season=2025"}
	events := newAdapter(srv).FetchEvents(context.Background(), sport, runStart)

	if len(events) != 1 || events[0].ExternalID != "1" {
		t.Fatalf("Expected one fixture, got %+v", events)
	}
}

func TestAdapter_UpstreamErrorsYieldNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":{"token":"Error/Missing application key."},"response":[]}`))
	}))
	defer srv.Close()

	sport := config.SportConfig{Key: "soccer", Provider: config.ProviderAPISports, Endpoint: "/fixtures"}
	if events := newAdapter(srv).FetchEvents(context.Background(), sport, runStart); len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}
