// Package slog provides log/slog-based logging decorators for docpipe
// collaborator interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docpipe"
)

// Ensure LoggingClient implements docpipe.HTMLClient.
var _ docpipe.HTMLClient = (*LoggingClient)(nil)

// LoggingClient wraps an HTMLClient with debug logging.
type LoggingClient struct {
	next   docpipe.HTMLClient
	logger *slog.Logger
}

// NewLoggingClient creates a new LoggingClient.
func NewLoggingClient(next docpipe.HTMLClient, logger *slog.Logger) *LoggingClient {
	return &LoggingClient{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped client.
func (c *LoggingClient) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Fetch(ctx, url)
}

// Close delegates to the wrapped client.
func (c *LoggingClient) Close() error {
	return c.next.Close()
}
