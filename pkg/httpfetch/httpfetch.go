// Package httpfetch provides a small HTTP GET client with bounded retries,
// exponential backoff and rate-limit handling, shared by every upstream
// API client in this module.
package httpfetch

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/astrocue/agentools/pkg/metricskey"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonboulle/clockwork"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "httpfetch")

var (
	// ErrUnavailable is returned when no response could be obtained after
	// the retry budget is exhausted. Callers must treat it as an empty or
	// absent result, never as a fatal condition.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamAuth is returned on 401/403 responses; authentication
	// failures are not transient and are never retried.
	ErrUpstreamAuth = errors.New("upstream authentication failed")
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultBackoffFactor = 2.0
)

// Config holds the retry policy for a Client.
type Config struct {
	// Timeout applies to each individual request attempt.
	Timeout time.Duration
	// MaxRetries is the shared attempt budget across all retryable paths,
	// rate limiting included.
	MaxRetries int
	// BackoffFactor f yields a sleep of f^attempt seconds before retry.
	BackoffFactor float64
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = DefaultBackoffFactor
	}
	return cfg
}

// Client issues GET requests with the configured retry policy.
type Client struct {
	cfg        Config
	httpClient *http.Client
	clock      clockwork.Clock
}

func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		clock: clockwork.NewRealClock(),
	}
}

// WithHTTPClient replaces the underlying HTTP client, used in tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithClock replaces the backoff sleep source, used in tests.
func (c *Client) WithClock(clock clockwork.Clock) *Client {
	c.clock = clock
	return c
}

// Fetch issues a GET request to the given URL and returns the response body.
//
// HTTP 429 honors the Retry-After header when present, falling back to
// exponential backoff. 401 and 403 fail immediately. Any other non-2xx
// status fails immediately. Timeouts and connection errors back off and
// retry until the attempt budget is exhausted, then resolve to
// ErrUnavailable.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	host := hostOf(rawURL)
	metricskey.StatsUpstreamRequests.IncrCounter(1, host)

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.cfg.MaxRetries-1 {
				logger.ContextKV(ctx, xlog.WARNING,
					"reason", "request_failed",
					"host", host,
					"attempt", attempt+1,
					"max_retries", c.cfg.MaxRetries,
					"err", err.Error())
				metricskey.StatsUpstreamRetries.IncrCounter(1, host, "transport")
				c.clock.Sleep(c.backoff(attempt))
				continue
			}
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "retries_exhausted",
				"host", host,
				"attempts", c.cfg.MaxRetries,
				"err", err.Error())
			metricskey.StatsUpstreamFailed.IncrCounter(1, host)
			return nil, errors.WithMessagef(ErrUnavailable, "request failed after %d attempts", c.cfg.MaxRetries)
		}

		body, rerr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := c.retryAfter(resp, attempt)
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "rate_limited",
				"host", host,
				"wait", wait.String(),
				"attempt", attempt+1,
				"max_retries", c.cfg.MaxRetries)
			metricskey.StatsUpstreamRetries.IncrCounter(1, host, "rate_limited")
			c.clock.Sleep(wait)
			continue

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "auth_failed",
				"host", host,
				"status", resp.StatusCode)
			metricskey.StatsUpstreamFailed.IncrCounter(1, host)
			return nil, errors.WithMessagef(ErrUpstreamAuth, "status %d", resp.StatusCode)

		case resp.StatusCode < 200 || resp.StatusCode > 299:
			metricskey.StatsUpstreamFailed.IncrCounter(1, host)
			return nil, errors.Newf("unexpected status %d from %s", resp.StatusCode, host)
		}

		if rerr != nil {
			return nil, errors.Wrap(rerr, "failed to read response")
		}
		return body, nil
	}

	metricskey.StatsUpstreamFailed.IncrCounter(1, host)
	return nil, errors.WithMessagef(ErrUnavailable, "no response after %d attempts", c.cfg.MaxRetries)
}

// FetchJSON fetches the URL and decodes the JSON response into v.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(c.cfg.BackoffFactor, float64(attempt)) * float64(time.Second))
}

func (c *Client) retryAfter(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.backoff(attempt)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// BuildURL assembles base+path with an escaped query string.
func BuildURL(base, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			b.WriteString("/")
		}
		b.WriteString(path)
	}
	if len(query) > 0 {
		b.WriteString("?")
		b.WriteString(query.Encode())
	}
	return b.String()
}
