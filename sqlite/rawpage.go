package sqlite

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docpipe"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docpipe.RawPageService = (*RawPageService)(nil)

// RawPageService implements docpipe.RawPageService using SQLite. Raw pages
// are an audit artifact replaced wholesale on every ingestion run.
type RawPageService struct {
	db *DB
}

// NewRawPageService creates a new RawPageService.
func NewRawPageService(db *DB) *RawPageService {
	return &RawPageService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// ReplaceRawPages atomically replaces all raw pages for a documentation.
func (s *RawPageService) ReplaceRawPages(ctx context.Context, documentationID string, pages []*docpipe.RawPage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM raw_pages WHERE documentation_id = ?", documentationID); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, page := range pages {
		page.ID = uuid.New().String()
		page.DocumentationID = documentationID
		page.ContentHash = hashContent(page.MarkdownContent)
		page.CreatedAt = now

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO raw_pages (id, documentation_id, url, html_content, markdown_content, content_hash, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, page.ID, page.DocumentationID, page.URL, page.HTMLContent, page.MarkdownContent,
			page.ContentHash, page.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRawPages retrieves raw pages for a documentation in insertion order.
func (s *RawPageService) FindRawPages(ctx context.Context, documentationID string) ([]*docpipe.RawPage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, documentation_id, url, html_content, markdown_content, content_hash, created_at
		FROM raw_pages
		WHERE documentation_id = ?
		ORDER BY rowid ASC
	`, documentationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*docpipe.RawPage
	for rows.Next() {
		var page docpipe.RawPage
		var createdAt string

		if err := rows.Scan(&page.ID, &page.DocumentationID, &page.URL, &page.HTMLContent,
			&page.MarkdownContent, &page.ContentHash, &createdAt); err != nil {
			return nil, err
		}

		if page.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}
