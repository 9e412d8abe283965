package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docpipe"
	main "github.com/fwojciec/docpipe/cmd/docpipe"
	"github.com/fwojciec/docpipe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes documentation by URL", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return &docpipe.Documentation{ID: "doc-123", URL: url}, nil
			},
			DeleteDocumentationFn: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs}

		cmd := &main.DeleteCmd{URL: "https://example.com/docs", Force: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "doc-123", deletedID)
		assert.Contains(t, stdout.String(), "Deleted documentation")
		assert.Empty(t, stderr.String())
	})

	t.Run("requires force flag without confirmation", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr}

		cmd := &main.DeleteCmd{URL: "https://example.com/docs"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docpipe.EINVALID, docpipe.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
		assert.Empty(t, stdout.String())
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

		cmd := &main.DeleteCmd{URL: "https://unknown.example.com", Force: true}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
		assert.Empty(t, stdout.String())
	})
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("exports sections to the site host directory", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentationService{
			FindDocumentationByURLFn: func(ctx context.Context, url string) (*docpipe.Documentation, error) {
				return &docpipe.Documentation{ID: "doc-1", URL: url}, nil
			},
		}
		sections := &mock.SectionService{
			FindSectionsFn: func(ctx context.Context, filter docpipe.SectionFilter) ([]*docpipe.Section, error) {
				return []*docpipe.Section{
					{ID: "s1", DocumentationID: "doc-1", Path: "/docs/guide", Title: "Guide", Content: "content"},
				}, nil
			},
		}

		dir := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Docs: docs, Sections: sections}

		cmd := &main.ExportCmd{URL: "https://example.com/docs", Dir: dir}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported sections")
		_, statErr := os.Stat(filepath.Join(dir, "example.com", "docs", "guide.md"))
		assert.NoError(t, statErr)
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

		cmd := &main.ExportCmd{URL: "https://example.com/docs", Dir: t.TempDir()}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docpipe.ENOTFOUND, docpipe.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
