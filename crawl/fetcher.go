package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/docpipe"
)

// Compile-time interface verification.
var _ docpipe.Fetcher = (*RenderFetcher)(nil)

// RenderFetcher implements docpipe.Fetcher by composing an HTML client with
// content extraction, markdown conversion and link extraction. The client
// hides HTTP vs browser selection; the extractor removes boilerplate before
// conversion.
type RenderFetcher struct {
	Client    docpipe.HTMLClient
	Extractor docpipe.Extractor
	Converter docpipe.Converter
	Links     docpipe.LinkExtractor
}

// Fetch retrieves a URL and renders it to markdown plus outbound links.
//
// A client error carrying the ENOTFOUND code (e.g. a non-2xx status) is
// reported as a soft failure rather than an error, so the crawl skips the
// page and continues. Pages whose extracted content is empty are also soft
// failures.
func (f *RenderFetcher) Fetch(ctx context.Context, url string) (*docpipe.FetchResult, error) {
	html, err := f.Client.Fetch(ctx, url)
	if err != nil {
		if docpipe.ErrorCode(err) == docpipe.ENOTFOUND {
			return &docpipe.FetchResult{Success: false}, nil
		}
		return nil, err
	}

	extracted, err := f.Extractor.Extract(html)
	if err != nil || strings.TrimSpace(extracted.ContentHTML) == "" {
		return &docpipe.FetchResult{Success: false, HTML: html}, nil
	}

	markdown, err := f.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return &docpipe.FetchResult{Success: false, HTML: html}, nil
	}

	links, err := f.Links.ExtractLinks(html, url)
	if err != nil {
		links = nil
	}

	return &docpipe.FetchResult{
		Success:  true,
		Markdown: markdown,
		HTML:     html,
		Links:    links,
	}, nil
}
