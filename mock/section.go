package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.SectionService = (*SectionService)(nil)

// SectionService is a mock implementation of docpipe.SectionService.
type SectionService struct {
	CreateSectionFn                 func(ctx context.Context, section *docpipe.Section) error
	FindSectionByIDFn               func(ctx context.Context, id string) (*docpipe.Section, error)
	FindSectionsFn                  func(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error)
	UpdateSectionFn                 func(ctx context.Context, id string, upd docpipe.SectionUpdate) (*docpipe.Section, error)
	SetSectionParentFn              func(ctx context.Context, id string, parentID *string) error
	SetSectionEmbeddingFn           func(ctx context.Context, id string, embedding []float32) error
	DeleteSectionFn                 func(ctx context.Context, id string) error
	DeleteSectionsByDocumentationFn func(ctx context.Context, documentationID string) error
}

func (s *SectionService) CreateSection(ctx context.Context, section *docpipe.Section) error {
	return s.CreateSectionFn(ctx, section)
}

func (s *SectionService) FindSectionByID(ctx context.Context, id string) (*docpipe.Section, error) {
	return s.FindSectionByIDFn(ctx, id)
}

func (s *SectionService) FindSections(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
	return s.FindSectionsFn(ctx, filter)
}

func (s *SectionService) UpdateSection(ctx context.Context, id string, upd docpipe.SectionUpdate) (*docpipe.Section, error) {
	return s.UpdateSectionFn(ctx, id, upd)
}

func (s *SectionService) SetSectionParent(ctx context.Context, id string, parentID *string) error {
	return s.SetSectionParentFn(ctx, id, parentID)
}

func (s *SectionService) SetSectionEmbedding(ctx context.Context, id string, embedding []float32) error {
	return s.SetSectionEmbeddingFn(ctx, id, embedding)
}

func (s *SectionService) DeleteSection(ctx context.Context, id string) error {
	return s.DeleteSectionFn(ctx, id)
}

func (s *SectionService) DeleteSectionsByDocumentation(ctx context.Context, documentationID string) error {
	return s.DeleteSectionsByDocumentationFn(ctx, documentationID)
}
