// Package crawl provides breadth-first documentation site traversal.
// It coordinates fetching, URL normalization, glob-based filter policy,
// and bounded retries for the ingestion pipeline.
package crawl

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/docpipe"
)

// Crawl limits.
const (
	// DefaultMaxPages caps the number of pages per run to prevent
	// runaway crawls.
	DefaultMaxPages = 500

	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ docpipe.Crawler = (*Crawler)(nil)

// Crawler drives a breadth-first traversal of a documentation site.
type Crawler struct {
	Fetcher     docpipe.Fetcher
	RateLimiter docpipe.DomainLimiter

	// MaxPages caps the total number of fetched pages. Defaults to
	// DefaultMaxPages.
	MaxPages int

	// PerPageTimeout bounds each fetch attempt. Zero means no per-page
	// timeout beyond the crawl context.
	PerPageTimeout time.Duration

	// RetryDelays holds the backoff delays between fetch attempts; its
	// length is the number of extra attempts after the first failure.
	// Defaults to DefaultRetryDelays().
	RetryDelays []time.Duration
}

// queued is one BFS frontier entry.
type queued struct {
	url   string
	depth int
}

// Crawl traverses the site breadth-first from cfg.StartURL and returns
// successfully fetched pages in visitation order.
//
// URLs are normalized before deduplication and filtering, so URLs differing
// only by fragment, query string or trailing slash are the same node. A URL
// is fetched only if its depth does not exceed cfg.MaxDepth and it passes
// the include/exclude glob policy. A hard fetch failure (after retries)
// aborts the crawl; a soft failure reported by the collaborator skips the
// page and continues.
func (c *Crawler) Crawl(ctx context.Context, cfg docpipe.CrawlConfig) ([]*docpipe.Page, error) {
	filter, err := newFilter(cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	start := NormalizeURL(cfg.StartURL)
	seen := newSeenSet(frontierExpectedURLs, frontierFalsePositiveRate)

	queue := []queued{{url: start, depth: 0}}
	var pages []*docpipe.Page

	for len(queue) > 0 && len(pages) < maxPages {
		next := queue[0]
		queue = queue[1:]

		if next.depth > cfg.MaxDepth {
			continue
		}
		if !filter.allows(next.url) {
			continue
		}
		if !seen.add(next.url) {
			continue
		}

		result, err := c.fetch(ctx, next.url)
		if err != nil {
			return nil, err
		}
		if !result.Success {
			// Collaborator-reported soft failure: skip without aborting.
			continue
		}

		pages = append(pages, &docpipe.Page{
			URL:      next.url,
			Markdown: result.Markdown,
			HTML:     result.HTML,
			Depth:    next.depth,
		})

		if next.depth >= cfg.MaxDepth {
			continue
		}

		for _, link := range result.Links {
			absolute := resolveLink(next.url, link)
			if absolute == "" {
				continue
			}
			if seen.has(absolute) {
				continue
			}
			if !filter.allows(absolute) {
				continue
			}
			queue = append(queue, queued{url: absolute, depth: next.depth + 1})
		}
	}

	return pages, nil
}

// fetch retrieves one URL with rate limiting, a per-page timeout and
// bounded retries.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (*docpipe.FetchResult, error) {
	if c.RateLimiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	return fetchWithRetry(ctx, rawURL, func(ctx context.Context, url string) (*docpipe.FetchResult, error) {
		if c.PerPageTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.PerPageTimeout)
			defer cancel()
		}
		return c.Fetcher.Fetch(ctx, url)
	}, delays)
}

// resolveLink resolves a link against its source page and normalizes it.
// Returns an empty string for unparseable links.
func resolveLink(sourceURL, link string) string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return NormalizeURL(base.ResolveReference(ref).String())
}
