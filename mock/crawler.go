package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of docpipe.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, config docpipe.CrawlConfig) ([]*docpipe.Page, error)
}

func (c *Crawler) Crawl(ctx context.Context, config docpipe.CrawlConfig) ([]*docpipe.Page, error) {
	return c.CrawlFn(ctx, config)
}
