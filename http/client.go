// Package http provides HTTP-based implementations of docpipe collaborator
// interfaces for static sites that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docpipe"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Client implements docpipe.HTMLClient at compile time.
var _ docpipe.HTMLClient = (*Client)(nil)

// Client retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Client, this does not execute JavaScript and is suitable
// for static sites only.
type Client struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new HTTP-based Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Fetch retrieves the HTML content from the given URL. A non-2xx response
// returns an ENOTFOUND error so callers can treat it as a per-page soft
// failure rather than aborting a crawl.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", docpipe.Errorf(docpipe.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. For the HTTP client this is a no-op since
// http.Client doesn't require explicit cleanup.
func (c *Client) Close() error {
	return nil
}
