// Package github provides a minimal GitHub REST connector for the wrapped
// pipeline. It exposes high-level fetch functions backed by the public REST
// and Search APIs and classifies failures into a small typed taxonomy.
package github

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "github-wrapped/0.1"
	acceptDefault    = "application/vnd.github+json"
	perPage          = 100
	maxPages         = 10

	fetchAttempts  = 3
	retryBaseDelay = 1 * time.Second
)

// Client is a thin wrapper over http.Client with token auth and typed
// failure classification. Use New to construct it.
type Client struct {
	c       *http.Client
	baseURL string
}

// New builds a Client. A nil http.Client gets a 30s-timeout default; when a
// token is supplied the transport is wired through oauth2 so every request
// carries it. baseURL overrides the public API base (tests point it at a
// mock server); empty means api.github.com.
func New(c *http.Client, token, baseURL string) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c = &http.Client{
			Timeout:   c.Timeout,
			Transport: &oauth2.Transport{Source: src, Base: c.Transport},
		}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{c: c, baseURL: baseURL}
}

// getJSON fetches url and decodes the JSON body into out. Transient
// failures (network, 5xx, 429, rate-limit 403) are retried up to
// fetchAttempts with linearly increasing delay; terminal failures (404,
// other 4xx) surface immediately. The last attempt's error is returned
// as classified, unwrapped.
func (hc *Client) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if attempt > 1 {
			slog.Warn("github.fetch.retry", "url", url, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBaseDelay):
			}
		}
		lastErr = hc.getJSONOnce(ctx, url, out)
		if lastErr == nil {
			return nil
		}
		if !Retriable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (hc *Client) getJSONOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", acceptDefault)
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := hc.c.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return &RateLimitError{Reset: parseRateLimitReset(resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &UpstreamError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// parseRateLimitReset reads the X-RateLimit-Reset header (unix seconds).
// Returns the zero time when absent or malformed.
func parseRateLimitReset(resp *http.Response) time.Time {
	reset := resp.Header.Get("X-RateLimit-Reset")
	if reset == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func drainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
