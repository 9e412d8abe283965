package mock

import "github.com/fwojciec/docpipe"

var _ docpipe.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docpipe.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docpipe.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docpipe.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docpipe.Converter = (*Converter)(nil)

// Converter is a mock implementation of docpipe.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docpipe.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docpipe.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
