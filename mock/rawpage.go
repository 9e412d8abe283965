package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.RawPageService = (*RawPageService)(nil)

// RawPageService is a mock implementation of docpipe.RawPageService.
type RawPageService struct {
	ReplaceRawPagesFn func(ctx context.Context, documentationID string, pages []*docpipe.RawPage) error
	FindRawPagesFn    func(ctx context.Context, documentationID string) ([]*docpipe.RawPage, error)
}

func (s *RawPageService) ReplaceRawPages(ctx context.Context, documentationID string, pages []*docpipe.RawPage) error {
	return s.ReplaceRawPagesFn(ctx, documentationID, pages)
}

func (s *RawPageService) FindRawPages(ctx context.Context, documentationID string) ([]*docpipe.RawPage, error) {
	return s.FindRawPagesFn(ctx, documentationID)
}
