package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docpipe"
	main "github.com/fwojciec/docpipe/cmd/docpipe"
	"github.com/fwojciec/docpipe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists sections in summary mode", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return &docpipe.Documentation{ID: "doc-1", URL: url}, nil
			},
		}
		sections := &mock.SectionService{
			FindSectionsFn: func(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
				return []*docpipe.Section{
					{ID: "s1", Path: "/docs", Title: "Docs", TokenCount: 100, Embedding: []float32{0.1}},
					{ID: "s2", Path: "/docs/guide", Title: "Guide", TokenCount: 1800},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs, Sections: sections}

		cmd := &main.SectionsCmd{URL: "https://example.com/docs"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Sections for https://example.com/docs (2 total)")
		assert.Contains(t, output, "/docs")
		assert.Contains(t, output, "Guide")
		assert.Contains(t, output, "tokens=1800")
		assert.Empty(t, stderr.String())
	})

	t.Run("shows full content with --full flag", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return &docpipe.Documentation{ID: "doc-1", URL: url}, nil
			},
		}
		sections := &mock.SectionService{
			FindSectionsFn: func(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
				return []*docpipe.Section{
					{ID: "s1", Path: "/docs", Title: "Getting Started", Content: "# Getting Started\n\nWelcome."},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs, Sections: sections}

		cmd := &main.SectionsCmd{URL: "https://example.com/docs", Full: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "## Section: Getting Started (/docs)")
		assert.Contains(t, stdout.String(), "Welcome.")
	})

	t.Run("returns error when documentation has no sections", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return &docpipe.Documentation{ID: "doc-1", URL: url}, nil
			},
		}
		sections := &mock.SectionService{
			FindSectionsFn: func(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs, Sections: sections}

		cmd := &main.SectionsCmd{URL: "https://example.com/docs"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docpipe.ENOTFOUND, docpipe.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no sections")
		assert.Contains(t, stderr.String(), "docpipe ingest")
	})

	t.Run("returns error when documentation not found", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return nil, docpipe.Errorf(docpipe.ENOTFOUND, "documentation not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs}

		cmd := &main.SectionsCmd{URL: "https://unknown.example.com"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
		assert.Empty(t, stdout.String())
	})
}
