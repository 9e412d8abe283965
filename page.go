package docpipe

import (
	"context"
	"time"
)

// Page represents one crawled documentation page in BFS visitation order.
type Page struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
	Depth    int    `json:"depth"`
}

// FetchResult holds the outcome of fetching and rendering a single URL.
// Success reports a collaborator-level soft failure: a false value means
// the page should be skipped without aborting the crawl.
type FetchResult struct {
	Success  bool
	Markdown string
	HTML     string
	Links    []string
}

// Fetcher retrieves and renders a documentation page. Implementations hide
// HTTP vs browser selection, content extraction, and markdown conversion.
// A returned error is a hard failure; soft failures are reported through
// FetchResult.Success. The context controls timeout and cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// HTMLClient retrieves raw (possibly JS-rendered) HTML from URLs.
type HTMLClient interface {
	// Fetch returns the page HTML. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// RawPage is the verbatim crawled content for one URL, replaced wholesale
// on each ingestion run. Pure audit artifact: nothing in the pipeline reads
// it back.
type RawPage struct {
	ID              string    `json:"id"`
	DocumentationID string    `json:"documentationId"`
	URL             string    `json:"url"`
	HTMLContent     string    `json:"htmlContent,omitempty"`
	MarkdownContent string    `json:"markdownContent"`
	ContentHash     string    `json:"contentHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RawPageService persists raw crawled pages.
type RawPageService interface {
	// ReplaceRawPages atomically replaces all raw pages for a documentation.
	ReplaceRawPages(ctx context.Context, documentationID string, pages []*RawPage) error

	// FindRawPages retrieves raw pages for a documentation.
	FindRawPages(ctx context.Context, documentationID string) ([]*RawPage, error)
}
