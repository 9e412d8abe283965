// Package rod provides a docpipe.HTMLClient that renders pages in headless
// Chrome, for documentation sites that require JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docpipe"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Client implements docpipe.HTMLClient at compile time.
var _ docpipe.HTMLClient = (*Client)(nil)

// Client retrieves rendered HTML from URLs using Chrome browser automation.
// The underlying browser is recycled periodically via Manager to keep
// Chrome's memory growth bounded. Client is safe for concurrent use by
// multiple goroutines.
type Client struct {
	manager      *Manager
	timeout      time.Duration
	recycleAfter int
	closed       atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithFetchTimeout sets the per-fetch timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRecycleAfter sets the number of pages rendered before the browser is
// recycled.
func WithRecycleAfter(n int) Option {
	return func(c *Client) {
		c.recycleAfter = n
	}
}

// NewClient creates a new Client backed by a freshly launched headless
// Chrome browser. Close must be called when the Client is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(c)
	}

	manager, err := NewManager(c.recycleAfter)
	if err != nil {
		return nil, err
	}
	c.manager = manager

	return c, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.closed.Load() {
		return "", docpipe.Errorf(docpipe.EINVALID, "client is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	page, err := c.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	c.manager.PageDone()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (c *Client) LauncherPID() int {
	return c.manager.PID()
}
