package thesportsdb

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/providers"
	"github.com/rutvikdhakate/sports-calendar/internal/retry"
)

type memoryCache struct {
	ids    map[string]string
	writes int
}

func (m *memoryCache) GetLeagueID(ctx context.Context, query string) (string, bool, error) {
	id, ok := m.ids[query]
	return id, ok, nil
}

func (m *memoryCache) SetLeagueID(ctx context.Context, query, id string) error {
	m.ids[query] = id
	m.writes++
	return nil
}

func newServer(t *testing.T, searches *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2/search_all_leagues.php":
			*searches++
			if r.URL.Query().Get("s") == "Formula 1" {
				w.Write([]byte(`{"countrys":[{"idLeague":"4370","strLeague":"Formula 1"}]}`))
				return
			}
			w.Write([]byte(`{"countrys":[{"idLeague":"1","strLeague":"Something Else"}]}`))
		case "/2/eventsnext.php":
			if r.URL.Query().Get("id") != "4370" {
				t.Errorf("Expected league id 4370, got %s", r.URL.Query().Get("id"))
			}
			w.Write([]byte(`{"events":[
				{"idEvent":"123","strEvent":"Italian GP","dateEvent":"2025-09-07","strTime":"13:00:00Z","strLeague":"Formula 1"},
				{"idEvent":"124","strEvent":"Azerbaijan GP","dateEvent":"2025-09-21"}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newAdapter(srv *httptest.Server, cache *memoryCache, logger *slog.Logger) *Adapter {
	client := NewClient(
		config.ProviderConfig{BaseURL: srv.URL, APIKey: "2"},
		providers.WithRetryPolicy(retry.NewPolicy(1, time.Millisecond)),
	)
	if cache == nil {
		return NewAdapter(client, normalize.DefaultRules(), nil, logger)
	}
	return NewAdapter(client, normalize.DefaultRules(), cache, logger)
}

var f1 = config.SportConfig{Key: "f1", Provider: config.ProviderTheSportsDB, SearchQuery: "Formula 1", Endpoint: "/eventsnext.php"}

func TestAdapter_FetchEvents(t *testing.T) {
	searches := 0
	srv := newServer(t, &searches)
	defer srv.Close()

	events := newAdapter(srv, nil, nil).FetchEvents(context.Background(), f1, runStart)

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].ExternalID != "123" || events[1].Start.Hour() != 12 {
		t.Errorf("Unexpected events %+v", events)
	}
}

func TestAdapter_LookupMissYieldsNothingAndWarns(t *testing.T) {
	searches := 0
	srv := newServer(t, &searches)
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wec := config.SportConfig{Key: "wec", Provider: config.ProviderTheSportsDB, SearchQuery: "WEC", Endpoint: "/eventsnext.php"}
	events := newAdapter(srv, nil, logger).FetchEvents(context.Background(), wec, runStart)

	if len(events) != 0 {
		t.Errorf("Expected no events on lookup miss, got %d", len(events))
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "league not found") {
		t.Errorf("Expected a warning to be logged, got %q", out)
	}
}

func TestAdapter_UsesLeagueCache(t *testing.T) {
	searches := 0
	srv := newServer(t, &searches)
	defer srv.Close()

	cache := &memoryCache{ids: map[string]string{}}
	adapter := newAdapter(srv, cache, nil)

	adapter.FetchEvents(context.Background(), f1, runStart)
	adapter.FetchEvents(context.Background(), f1, runStart)

	if searches != 1 {
		t.Errorf("Expected one league search, got %d", searches)
	}
	if cache.ids["Formula 1"] != "4370" || cache.writes != 1 {
		t.Errorf("Expected cached league id, got %v (%d writes)", cache.ids, cache.writes)
	}
}

func TestAdapter_TransportErrorYieldsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	events := newAdapter(srv, nil, nil).FetchEvents(context.Background(), f1, runStart)
	if events != nil {
		t.Errorf("Expected nil events, got %v", events)
	}
}
