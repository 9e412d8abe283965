package docpipe

import (
	"context"
	"time"
)

// Section represents one node in a documentation's content tree. Sections
// are addressed by a path that is unique within the owning documentation.
// Parent/child relationships are weak references resolved by path on every
// ingestion run, never owning pointers.
type Section struct {
	ID              string  `json:"id"`
	DocumentationID string  `json:"documentationId"`
	ParentID        *string `json:"parentId,omitempty"`

	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	Content    string    `json:"content"`
	Level      int       `json:"level"`
	URL        string    `json:"url"`
	TokenCount int       `json:"tokenCount"`
	Checksum   string    `json:"checksum"`
	Embedding  []float32 `json:"embedding,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the section contains invalid fields.
func (s *Section) Validate() error {
	if s.DocumentationID == "" {
		return Errorf(EINVALID, "section documentation ID required")
	}
	if s.Path == "" {
		return Errorf(EINVALID, "section path required")
	}
	return nil
}

// SectionService represents a service for managing sections.
type SectionService interface {
	// CreateSection creates a new section.
	// Returns ECONFLICT if the (documentation, path) pair already exists.
	CreateSection(ctx context.Context, section *Section) error

	// FindSectionByID retrieves a section by ID.
	// Returns ENOTFOUND if section does not exist.
	FindSectionByID(ctx context.Context, id string) (*Section, error)

	// FindSections retrieves sections matching the filter.
	FindSections(ctx context.Context, filter SectionFilter) ([]*Section, error)

	// UpdateSection updates mutable content fields of an existing section.
	// Returns ENOTFOUND if section does not exist.
	UpdateSection(ctx context.Context, id string, upd SectionUpdate) (*Section, error)

	// SetSectionParent re-links a section to a new parent. A nil parentID
	// makes the section a root.
	SetSectionParent(ctx context.Context, id string, parentID *string) error

	// SetSectionEmbedding attaches an embedding vector to a section.
	SetSectionEmbedding(ctx context.Context, id string, embedding []float32) error

	// DeleteSection permanently removes a section and its embedding.
	// Returns ENOTFOUND if section does not exist.
	DeleteSection(ctx context.Context, id string) error

	// DeleteSectionsByDocumentation removes all sections for a documentation.
	DeleteSectionsByDocumentation(ctx context.Context, documentationID string) error
}

// SectionFilter represents a filter for FindSections.
type SectionFilter struct {
	ID              *string `json:"id"`
	DocumentationID *string `json:"documentationId"`
	Path            *string `json:"path"`
	ParentID        *string `json:"parentId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SectionUpdate represents content fields that can be updated on a section.
type SectionUpdate struct {
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Content    *string `json:"content"`
	Level      *int    `json:"level"`
	URL        *string `json:"url"`
	TokenCount *int    `json:"tokenCount"`
	Checksum   *string `json:"checksum"`
}
