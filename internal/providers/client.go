// Package providers holds the JSON transport shared by the upstream clients.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/retry"
)

// APIError represents a non-2xx HTTP response from an upstream
type APIError struct {
	Provider   string
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status=%d, body=%s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client makes GET requests against one upstream and decodes JSON
type Client struct {
	provider   string
	baseURL    string
	userAgent  string
	headers    map[string]string
	httpClient *http.Client
	policy     *retry.Policy
}

// Option configures Client behavior
type Option func(*Client)

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryPolicy replaces the default backoff policy
func WithRetryPolicy(p *retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// NewClient creates a client for the named provider
func NewClient(provider string, cfg config.ProviderConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		provider:  provider,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		headers:   make(map[string]string),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy: retry.NewPolicy(cfg.MaxRetries+1, 500*time.Millisecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the upstream name used in errors and logs
func (c *Client) Provider() string {
	return c.provider
}

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON sends a GET to base+path and unmarshals the body into dest.
// path may already carry a query string; query is appended to it.
// Transient failures (network, 429, 5xx) are retried; other statuses return
// *APIError immediately.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		fullURL += sep + query.Encode()
	}

	return c.policy.Execute(ctx, func(ctx context.Context) error {
		body, err := c.fetch(ctx, fullURL)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, dest); err != nil {
			return retry.Permanent(fmt.Errorf("decoding %s response: %w", c.provider, err))
		}
		return nil
	})
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		apiErr := &APIError{Provider: c.provider, StatusCode: resp.StatusCode, Body: snippet}
		if apiErr.Retryable() {
			return nil, apiErr
		}
		return nil, retry.Permanent(apiErr)
	}

	return body, nil
}
