package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/docpipe"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docpipe.DocumentationService = (*DocumentationService)(nil)

// DocumentationService implements docpipe.DocumentationService using SQLite.
type DocumentationService struct {
	db *DB
}

// NewDocumentationService creates a new DocumentationService.
func NewDocumentationService(db *DB) *DocumentationService {
	return &DocumentationService{db: db}
}

// CreateDocumentation creates a new documentation record.
func (s *DocumentationService) CreateDocumentation(ctx context.Context, doc *docpipe.Documentation) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	// Enforce URL uniqueness with a typed error rather than surfacing the
	// raw constraint violation.
	if _, err := s.FindDocumentationByURL(ctx, doc.URL); err == nil {
		return docpipe.Errorf(docpipe.ECONFLICT, "documentation for URL %q already exists", doc.URL)
	} else if docpipe.ErrorCode(err) != docpipe.ENOTFOUND {
		return err
	}

	doc.ID = uuid.New().String()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	include, err := marshalStrings(doc.IncludePatterns)
	if err != nil {
		return err
	}
	exclude, err := marshalStrings(doc.ExcludePatterns)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documentation (id, url, title, crawl_depth, include_patterns, exclude_patterns,
			embedding_model, embedding_dimension, last_synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.URL, doc.Title, doc.CrawlDepth, include, exclude,
		doc.EmbeddingModel, doc.EmbeddingDimension, formatNullableTime(doc.LastSynced),
		doc.CreatedAt.Format(time.RFC3339), doc.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindDocumentationByID retrieves a documentation record by ID.
func (s *DocumentationService) FindDocumentationByID(ctx context.Context, id string) (*docpipe.Documentation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, crawl_depth, include_patterns, exclude_patterns,
			embedding_model, embedding_dimension, last_synced, created_at, updated_at
		FROM documentation
		WHERE id = ?
	`, id)

	doc, err := scanDocumentation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docpipe.Errorf(docpipe.ENOTFOUND, "documentation not found")
	}
	return doc, err
}

// FindDocumentationByURL retrieves a documentation record by its root URL.
func (s *DocumentationService) FindDocumentationByURL(ctx context.Context, url string) (*docpipe.Documentation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, crawl_depth, include_patterns, exclude_patterns,
			embedding_model, embedding_dimension, last_synced, created_at, updated_at
		FROM documentation
		WHERE url = ?
	`, url)

	doc, err := scanDocumentation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docpipe.Errorf(docpipe.ENOTFOUND, "documentation not found")
	}
	return doc, err
}

// FindDocumentations retrieves documentation records matching the filter.
func (s *DocumentationService) FindDocumentations(ctx context.Context, filter docpipe.DocumentationFilter) ([]*docpipe.Documentation, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, url, title, crawl_depth, include_patterns, exclude_patterns,
		embedding_model, embedding_dimension, last_synced, created_at, updated_at
		FROM documentation WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docpipe.Documentation
	for rows.Next() {
		doc, err := scanDocumentation(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocumentation updates an existing documentation record.
func (s *DocumentationService) UpdateDocumentation(ctx context.Context, id string, upd docpipe.DocumentationUpdate) (*docpipe.Documentation, error) {
	// First check if the record exists
	doc, err := s.FindDocumentationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.CrawlDepth != nil {
		doc.CrawlDepth = *upd.CrawlDepth
	}
	if upd.IncludePatterns != nil {
		doc.IncludePatterns = *upd.IncludePatterns
	}
	if upd.ExcludePatterns != nil {
		doc.ExcludePatterns = *upd.ExcludePatterns
	}
	if upd.EmbeddingModel != nil {
		doc.EmbeddingModel = *upd.EmbeddingModel
	}
	if upd.EmbeddingDimension != nil {
		doc.EmbeddingDimension = *upd.EmbeddingDimension
	}
	if upd.LastSynced != nil {
		doc.LastSynced = upd.LastSynced
	}

	// Validate before persisting
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	doc.UpdatedAt = time.Now().UTC()

	include, err := marshalStrings(doc.IncludePatterns)
	if err != nil {
		return nil, err
	}
	exclude, err := marshalStrings(doc.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documentation
		SET title = ?, crawl_depth = ?, include_patterns = ?, exclude_patterns = ?,
			embedding_model = ?, embedding_dimension = ?, last_synced = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.CrawlDepth, include, exclude,
		doc.EmbeddingModel, doc.EmbeddingDimension, formatNullableTime(doc.LastSynced),
		doc.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocumentation permanently removes a documentation record. Sections,
// jobs and raw pages are removed by foreign key cascade.
func (s *DocumentationService) DeleteDocumentation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documentation WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docpipe.Errorf(docpipe.ENOTFOUND, "documentation not found")
	}

	return nil
}

// scanDocumentation scans a documentation row using the provided scan function.
func scanDocumentation(scan func(dest ...any) error) (*docpipe.Documentation, error) {
	var doc docpipe.Documentation
	var include, exclude, createdAt, updatedAt string
	var lastSynced sql.NullString

	err := scan(&doc.ID, &doc.URL, &doc.Title, &doc.CrawlDepth, &include, &exclude,
		&doc.EmbeddingModel, &doc.EmbeddingDimension, &lastSynced, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if doc.IncludePatterns, err = unmarshalStrings(include, "include_patterns"); err != nil {
		return nil, err
	}
	if doc.ExcludePatterns, err = unmarshalStrings(exclude, "exclude_patterns"); err != nil {
		return nil, err
	}
	if lastSynced.Valid && lastSynced.String != "" {
		t, err := parseRFC3339(lastSynced.String, "last_synced")
		if err != nil {
			return nil, err
		}
		doc.LastSynced = &t
	}
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}

// formatNullableTime formats an optional timestamp for storage, mapping nil
// to SQL NULL.
func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
