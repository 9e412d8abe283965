package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docpipe.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docpipe.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docpipe.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

var _ docpipe.HTMLClient = (*HTMLClient)(nil)

// HTMLClient is a mock implementation of docpipe.HTMLClient.
type HTMLClient struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (c *HTMLClient) Fetch(ctx context.Context, url string) (string, error) {
	return c.FetchFn(ctx, url)
}

func (c *HTMLClient) Close() error {
	if c.CloseFn == nil {
		return nil
	}
	return c.CloseFn()
}
