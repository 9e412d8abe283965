package docpipe

import "context"

// CrawlConfig holds the per-documentation crawl configuration.
// Include and exclude patterns use doublestar glob syntax and are matched
// against full normalized URLs. Exclude wins over include; an empty include
// list accepts everything not excluded.
type CrawlConfig struct {
	StartURL        string
	MaxDepth        int
	IncludePatterns []string
	ExcludePatterns []string
}

// Crawler performs a breadth-first traversal of a documentation site and
// returns successfully fetched pages in visitation order.
type Crawler interface {
	Crawl(ctx context.Context, cfg CrawlConfig) ([]*Page, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
