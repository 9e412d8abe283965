package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docpipe/mock"
	docslog "github.com/fwojciec/docpipe/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.HTMLClient{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		client := docslog.NewLoggingClient(inner, logger)
		html, err := client.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.HTMLClient{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		client := docslog.NewLoggingClient(inner, logger)
		_, err := client.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingClient_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner client", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closeCalled := false
		inner := &mock.HTMLClient{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		client := docslog.NewLoggingClient(inner, logger)
		err := client.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingEmbedder_EmbedBatch(t *testing.T) {
	t.Parallel()

	t.Run("logs batch and vector counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{0.1}, {0.2}}, nil
			},
		}

		embedder := docslog.NewLoggingEmbedder(inner, logger)
		vectors, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})

		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		output := buf.String()
		assert.Contains(t, output, "embed")
		assert.Contains(t, output, "texts=2")
		assert.Contains(t, output, "vectors=2")
	})
}
