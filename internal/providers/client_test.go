package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/retry"
)

func newTestClient(srv *httptest.Server, attempts int, opts ...Option) *Client {
	opts = append(opts, WithRetryPolicy(retry.NewPolicy(attempts, time.Millisecond)))
	return NewClient("Test", config.ProviderConfig{BaseURL: srv.URL + "/", UserAgent: "test-agent"}, opts...)
}

func TestGetJSON_DecodesAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("Expected path /fixtures, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("league") != "39" || r.URL.Query().Get("page") != "2" {
			t.Errorf("Expected merged query, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("x-apisports-key") != "secret" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-apisports-key"))
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"results": 2}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, 1, WithHeader("x-apisports-key", "secret"))

	var out struct {
		Results int `json:"results"`
	}
	err := c.GetJSON(context.Background(), "/fixtures?league=39", url.Values{"page": {"2"}}, &out)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.Results != 2 {
		t.Errorf("Expected results=2, got %d", out.Results)
	}
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out map[string]any
	if err := newTestClient(srv, 3).GetJSON(context.Background(), "/x", nil, &out); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 calls, got %d", got)
	}
}

func TestGetJSON_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv, 3).GetJSON(context.Background(), "/x", nil, &out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Provider != "Test" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 call, got %d", got)
	}
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	var out map[string]any
	if err := newTestClient(srv, 3).GetJSON(context.Background(), "/x", nil, &out); err == nil {
		t.Error("Expected decode error")
	}
}
