// Package mock provides function-field mock implementations of docpipe
// service interfaces for tests.
package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.DocumentationService = (*DocumentationService)(nil)

// DocumentationService is a mock implementation of docpipe.DocumentationService.
type DocumentationService struct {
	CreateDocumentationFn    func(ctx context.Context, doc *docpipe.Documentation) error
	FindDocumentationByIDFn  func(ctx context.Context, id string) (*docpipe.Documentation, error)
	FindDocumentationByURLFn func(ctx context.Context, url string) (*docpipe.Documentation, error)
	FindDocumentationsFn     func(ctx context.Context, filter docpipe.DocumentationFilter) ([]*docpipe.Documentation, error)
	UpdateDocumentationFn    func(ctx context.Context, id string, upd docpipe.DocumentationUpdate) (*docpipe.Documentation, error)
	DeleteDocumentationFn    func(ctx context.Context, id string) error
}

func (s *DocumentationService) CreateDocumentation(ctx context.Context, doc *docpipe.Documentation) error {
	return s.CreateDocumentationFn(ctx, doc)
}

func (s *DocumentationService) FindDocumentationByID(ctx context.Context, id string) (*docpipe.Documentation, error) {
	return s.FindDocumentationByIDFn(ctx, id)
}

func (s *DocumentationService) FindDocumentationByURL(ctx context.Context, url string) (*docpipe.Documentation, error) {
	return s.FindDocumentationByURLFn(ctx, url)
}

func (s *DocumentationService) FindDocumentations(ctx context.Context, filter docpipe.DocumentationFilter) ([]*docpipe.Documentation, error) {
	return s.FindDocumentationsFn(ctx, filter)
}

func (s *DocumentationService) UpdateDocumentation(ctx context.Context, id string, upd docpipe.DocumentationUpdate) (*docpipe.Documentation, error) {
	return s.UpdateDocumentationFn(ctx, id, upd)
}

func (s *DocumentationService) DeleteDocumentation(ctx context.Context, id string) error {
	return s.DeleteDocumentationFn(ctx, id)
}
