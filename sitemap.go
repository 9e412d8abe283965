package docpipe

import "context"

// SitemapService discovers URLs from website sitemaps. Used by the CLI to
// preview what a crawl would cover before starting an ingestion run.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
