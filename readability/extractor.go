// Package readability provides a docpipe.Extractor backed by go-readability,
// selectable as an alternative to the trafilatura extractor.
package readability

import (
	"strings"

	"github.com/fwojciec/docpipe"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docpipe.Extractor at compile time.
var _ docpipe.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docpipe.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docpipe.Errorf(docpipe.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docpipe.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
