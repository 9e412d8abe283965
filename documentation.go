package docpipe

import (
	"context"
	"time"
)

// Documentation represents one crawlable documentation site.
type Documentation struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`

	// Crawl configuration used by ingestion runs.
	CrawlDepth      int      `json:"crawlDepth"`
	IncludePatterns []string `json:"includePatterns,omitempty"`
	ExcludePatterns []string `json:"excludePatterns,omitempty"`

	// Embedding metadata stamped by the last successful ingestion run.
	EmbeddingModel     string     `json:"embeddingModel,omitempty"`
	EmbeddingDimension int        `json:"embeddingDimension,omitempty"`
	LastSynced         *time.Time `json:"lastSynced,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the documentation contains invalid fields.
func (d *Documentation) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "documentation URL required")
	}
	if d.CrawlDepth < 0 {
		return Errorf(EINVALID, "crawl depth must not be negative")
	}
	return nil
}

// DocumentationService represents a service for managing documentation sites.
type DocumentationService interface {
	// CreateDocumentation creates a new documentation record.
	// Returns ECONFLICT if a record with the same URL already exists.
	CreateDocumentation(ctx context.Context, doc *Documentation) error

	// FindDocumentationByID retrieves a documentation record by ID.
	// Returns ENOTFOUND if it does not exist.
	FindDocumentationByID(ctx context.Context, id string) (*Documentation, error)

	// FindDocumentationByURL retrieves a documentation record by its root URL.
	// Returns ENOTFOUND if it does not exist.
	FindDocumentationByURL(ctx context.Context, url string) (*Documentation, error)

	// FindDocumentations retrieves documentation records matching the filter.
	FindDocumentations(ctx context.Context, filter DocumentationFilter) ([]*Documentation, error)

	// UpdateDocumentation updates an existing documentation record.
	// Returns ENOTFOUND if it does not exist.
	UpdateDocumentation(ctx context.Context, id string, upd DocumentationUpdate) (*Documentation, error)

	// DeleteDocumentation permanently removes a documentation record,
	// cascading to its sections, jobs, and raw pages.
	// Returns ENOTFOUND if it does not exist.
	DeleteDocumentation(ctx context.Context, id string) error
}

// DocumentationFilter represents a filter for FindDocumentations.
type DocumentationFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentationUpdate represents fields that can be updated on a documentation record.
type DocumentationUpdate struct {
	Title              *string    `json:"title"`
	CrawlDepth         *int       `json:"crawlDepth"`
	IncludePatterns    *[]string  `json:"includePatterns"`
	ExcludePatterns    *[]string  `json:"excludePatterns"`
	EmbeddingModel     *string    `json:"embeddingModel"`
	EmbeddingDimension *int       `json:"embeddingDimension"`
	LastSynced         *time.Time `json:"lastSynced"`
}
