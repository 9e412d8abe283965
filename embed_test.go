package docpipe_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmbedder collects the batches passed to it and answers with a
// per-text vector derived from the text length, so order is observable.
type recordingEmbedder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recordingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	r.mu.Lock()
	r.batches = append(r.batches, append([]string(nil), texts...))
	r.mu.Unlock()

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text))}
	}
	return vectors, nil
}

func TestBatchEmbedder_EmbedBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns without calling inner", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				t.Error("inner embedder should not be called for empty input")
				return nil, nil
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner}

		vectors, err := embedder.EmbedBatch(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, vectors)
	})

	t.Run("splits input into fixed-size batches preserving order", func(t *testing.T) {
		t.Parallel()

		inner := &recordingEmbedder{}
		embedder := &docpipe.BatchEmbedder{Inner: inner, BatchSize: 2}

		texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
		vectors, err := embedder.EmbedBatch(context.Background(), texts)

		require.NoError(t, err)
		require.Len(t, vectors, 5)
		for i, text := range texts {
			assert.Equal(t, float32(len(text)), vectors[i][0], "vector %d out of order", i)
		}
		assert.Len(t, inner.batches, 3)
	})

	t.Run("truncates oversized texts to the character budget", func(t *testing.T) {
		t.Parallel()

		var received string
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				received = texts[0]
				return [][]float32{{1}}, nil
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner}

		// Default budget is 8192*3 - 2000 characters.
		_, err := embedder.EmbedBatch(context.Background(), []string{strings.Repeat("a", 30000)})

		require.NoError(t, err)
		assert.Len(t, received, 22576)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		t.Parallel()

		var received string
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				received = texts[0]
				return [][]float32{{1}}, nil
			},
		}
		// TokenLimit 7527 gives a budget of 20581 bytes, which lands one
		// byte into the 10291st two-byte rune.
		embedder := &docpipe.BatchEmbedder{Inner: inner, TokenLimit: 7527}

		_, err := embedder.EmbedBatch(context.Background(), []string{strings.Repeat("é", 10300)})

		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", 10290), received)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				calls++
				if calls < 3 {
					return nil, docpipe.Errorf(docpipe.EINTERNAL, "transient")
				}
				return [][]float32{{1}}, nil
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner, RetryDelay: time.Millisecond}

		vectors, err := embedder.EmbedBatch(context.Background(), []string{"text"})

		require.NoError(t, err)
		assert.Len(t, vectors, 1)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				calls++
				return nil, docpipe.Errorf(docpipe.EINTERNAL, "transient")
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner, MaxAttempts: 2, RetryDelay: time.Millisecond}

		_, err := embedder.EmbedBatch(context.Background(), []string{"text"})

		require.Error(t, err)
		assert.Equal(t, docpipe.EINTERNAL, docpipe.ErrorCode(err))
		assert.Contains(t, docpipe.ErrorMessage(err), "failed after 2 attempts")
		assert.Equal(t, 2, calls)
	})

	t.Run("validation errors are terminal", func(t *testing.T) {
		t.Parallel()

		calls := 0
		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				calls++
				return nil, docpipe.Errorf(docpipe.EINVALID, "dimension mismatch")
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner, RetryDelay: time.Millisecond}

		_, err := embedder.EmbedBatch(context.Background(), []string{"text"})

		require.Error(t, err)
		assert.Equal(t, docpipe.EINVALID, docpipe.ErrorCode(err))
		assert.Equal(t, 1, calls, "EINVALID must not be retried")
	})

	t.Run("rejects a vector count mismatch", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Embedder{
			EmbedBatchFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
		}
		embedder := &docpipe.BatchEmbedder{Inner: inner}

		_, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})

		require.Error(t, err)
		assert.Equal(t, docpipe.EINTERNAL, docpipe.ErrorCode(err))
	})
}
