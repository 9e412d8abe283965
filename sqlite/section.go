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
var _ docpipe.SectionService = (*SectionService)(nil)

// SectionService implements docpipe.SectionService using SQLite.
type SectionService struct {
	db *DB
}

// NewSectionService creates a new SectionService.
func NewSectionService(db *DB) *SectionService {
	return &SectionService{db: db}
}

// CreateSection creates a new section.
func (s *SectionService) CreateSection(ctx context.Context, section *docpipe.Section) error {
	if err := section.Validate(); err != nil {
		return err
	}

	section.ID = uuid.New().String()
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	embedding, err := marshalEmbedding(section.Embedding)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sections (id, documentation_id, parent_id, path, title, summary, content,
			level, url, token_count, checksum, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, section.ID, section.DocumentationID, section.ParentID, section.Path, section.Title,
		section.Summary, section.Content, section.Level, section.URL, section.TokenCount,
		section.Checksum, nullableString(embedding),
		section.CreatedAt.Format(time.RFC3339), section.UpdatedAt.Format(time.RFC3339))

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return docpipe.Errorf(docpipe.ECONFLICT, "section path %q already exists", section.Path)
	}

	return err
}

// FindSectionByID retrieves a section by ID.
func (s *SectionService) FindSectionByID(ctx context.Context, id string) (*docpipe.Section, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, documentation_id, parent_id, path, title, summary, content,
			level, url, token_count, checksum, embedding, created_at, updated_at
		FROM sections
		WHERE id = ?
	`, id)

	section, err := scanSection(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docpipe.Errorf(docpipe.ENOTFOUND, "section not found")
	}
	return section, err
}

// FindSections retrieves sections matching the filter, ordered by path so
// parents sort before their children.
func (s *SectionService) FindSections(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, documentation_id, parent_id, path, title, summary, content,
		level, url, token_count, checksum, embedding, created_at, updated_at
		FROM sections WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DocumentationID != nil {
		query.WriteString(" AND documentation_id = ?")
		args = append(args, *filter.DocumentationID)
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}
	if filter.ParentID != nil {
		query.WriteString(" AND parent_id = ?")
		args = append(args, *filter.ParentID)
	}

	query.WriteString(" ORDER BY path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*docpipe.Section
	for rows.Next() {
		section, err := scanSection(rows.Scan)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}

// UpdateSection updates mutable content fields of an existing section.
func (s *SectionService) UpdateSection(ctx context.Context, id string, upd docpipe.SectionUpdate) (*docpipe.Section, error) {
	// First check if the section exists
	section, err := s.FindSectionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Title != nil {
		section.Title = *upd.Title
	}
	if upd.Summary != nil {
		section.Summary = *upd.Summary
	}
	if upd.Content != nil {
		section.Content = *upd.Content
	}
	if upd.Level != nil {
		section.Level = *upd.Level
	}
	if upd.URL != nil {
		section.URL = *upd.URL
	}
	if upd.TokenCount != nil {
		section.TokenCount = *upd.TokenCount
	}
	if upd.Checksum != nil {
		section.Checksum = *upd.Checksum
	}

	// Validate before persisting
	if err := section.Validate(); err != nil {
		return nil, err
	}

	section.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE sections
		SET title = ?, summary = ?, content = ?, level = ?, url = ?,
			token_count = ?, checksum = ?, updated_at = ?
		WHERE id = ?
	`, section.Title, section.Summary, section.Content, section.Level, section.URL,
		section.TokenCount, section.Checksum, section.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return section, nil
}

// SetSectionParent re-links a section to a new parent. A nil parentID makes
// the section a root.
func (s *SectionService) SetSectionParent(ctx context.Context, id string, parentID *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sections SET parent_id = ?, updated_at = ? WHERE id = ?
	`, parentID, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docpipe.Errorf(docpipe.ENOTFOUND, "section not found")
	}

	return nil
}

// SetSectionEmbedding attaches an embedding vector to a section.
func (s *SectionService) SetSectionEmbedding(ctx context.Context, id string, embedding []float32) error {
	encoded, err := marshalEmbedding(embedding)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sections SET embedding = ?, updated_at = ? WHERE id = ?
	`, nullableString(encoded), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docpipe.Errorf(docpipe.ENOTFOUND, "section not found")
	}

	return nil
}

// DeleteSection permanently removes a section and its embedding.
func (s *SectionService) DeleteSection(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docpipe.Errorf(docpipe.ENOTFOUND, "section not found")
	}

	return nil
}

// DeleteSectionsByDocumentation removes all sections for a documentation.
func (s *SectionService) DeleteSectionsByDocumentation(ctx context.Context, documentationID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sections WHERE documentation_id = ?", documentationID)
	return err
}

// scanSection scans a section row using the provided scan function.
func scanSection(scan func(dest ...any) error) (*docpipe.Section, error) {
	var section docpipe.Section
	var parentID, embedding sql.NullString
	var createdAt, updatedAt string

	err := scan(&section.ID, &section.DocumentationID, &parentID, &section.Path,
		&section.Title, &section.Summary, &section.Content, &section.Level, &section.URL,
		&section.TokenCount, &section.Checksum, &embedding, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		section.ParentID = &parentID.String
	}
	if embedding.Valid {
		if section.Embedding, err = unmarshalEmbedding(embedding.String); err != nil {
			return nil, err
		}
	}
	if section.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if section.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &section, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
