// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"bookmeta-cli/internal/config"
)

// maxBodyBytes caps how much of a response we are willing to read. Detail
// pages and JSON APIs stay well under this.
const maxBodyBytes = 4 << 20

// requestsPerSecond is the politeness budget each remote host gets.
const requestsPerSecond = 2.0

// Client wraps the shared HTTP client every remote provider uses: one
// User-Agent, two timeout tiers and a per-host politeness delay. Limiting
// is keyed by host so a slow scrape target never throttles the JSON APIs.
type Client struct {
	slow      *http.Client
	fast      *http.Client
	userAgent string

	mu       sync.Mutex
	limiters map[string]*RateLimiter
}

// NewClient builds the shared client from the http section of the
// configuration.
func NewClient(cfg config.HTTPConfig) *Client {
	return &Client{
		slow:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		fast:      &http.Client{Timeout: time.Duration(cfg.FastTimeoutSeconds) * time.Second},
		userAgent: cfg.UserAgent,
		limiters:  make(map[string]*RateLimiter),
	}
}

func (c *Client) limiterFor(host string) *RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	rl, ok := c.limiters[host]
	if !ok {
		rl = NewRateLimiter(requestsPerSecond)
		c.limiters[host] = rl
	}
	return rl
}

// Get fetches a URL with the regular timeout, used for detail pages and
// cover downloads.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, string, error) {
	return c.do(ctx, c.slow, url, headers)
}

// GetFast fetches a URL with the short timeout, used for search and probe
// requests where a slow site should not stall the whole pipeline.
func (c *Client) GetFast(ctx context.Context, url string, headers map[string]string) ([]byte, string, error) {
	return c.do(ctx, c.fast, url, headers)
}

func (c *Client) do(ctx context.Context, hc *http.Client, url string, headers map[string]string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", url, err)
	}
	if err := c.limiterFor(req.URL.Host).Wait(ctx); err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, finalURL, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, finalURL, fmt.Errorf("read %s: %w", url, err)
	}
	return body, finalURL, nil
}

// RateLimiter enforces a minimum interval between requests. Zero or
// negative rates disable limiting.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
}

// NewRateLimiter allows rps requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	rl := &RateLimiter{}
	if rps > 0 {
		rl.minInterval = time.Duration(float64(time.Second) / rps)
	}
	return rl
}

// Wait blocks until the next request is allowed or the context is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	wait := r.minInterval - now.Sub(r.last)
	if wait < 0 {
		wait = 0
	}
	r.last = now.Add(wait)
	r.mu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
