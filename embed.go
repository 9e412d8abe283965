package docpipe

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Embedder turns a batch of texts into fixed-dimension vectors, one output
// per input, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Defaults for BatchEmbedder.
const (
	DefaultEmbeddingBatchSize  = 64
	DefaultEmbeddingAttempts   = 3
	DefaultEmbeddingTokenLimit = 8192

	// Approximate characters per token, used to derive the truncation
	// budget from the token limit.
	embeddingCharsPerToken = 3

	// Safety margin subtracted from the character budget.
	embeddingCharMargin = 2000
)

// Ensure BatchEmbedder implements Embedder at compile time.
var _ Embedder = (*BatchEmbedder)(nil)

// BatchEmbedder decorates an Embedder with input truncation, fixed-size
// batching, bounded retries, and parallel batch dispatch. Batches may
// complete in any order; the final output preserves the original input
// order by reassembling results by batch index.
//
// Transient errors are retried with the batch re-sent verbatim. Validation
// errors (ErrorCode EINVALID, e.g. a dimension mismatch) are terminal and
// never retried.
type BatchEmbedder struct {
	Inner Embedder

	// BatchSize is the number of texts per inner call. Defaults to
	// DefaultEmbeddingBatchSize.
	BatchSize int

	// MaxAttempts is the total number of attempts per batch. Defaults to
	// DefaultEmbeddingAttempts.
	MaxAttempts int

	// TokenLimit bounds the input size; texts are truncated to
	// TokenLimit*3 - 2000 characters before sending. Defaults to
	// DefaultEmbeddingTokenLimit.
	TokenLimit int

	// RetryDelay is the pause between attempts. Defaults to 500ms.
	RetryDelay time.Duration

	// Parallelism caps concurrent inner calls. Defaults to 4.
	Parallelism int
}

// EmbedBatch embeds all texts and returns vectors in input order.
func (b *BatchEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEmbeddingBatchSize
	}
	parallelism := b.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	maxChars := b.maxChars()
	truncated := make([]string, len(texts))
	for i, text := range texts {
		truncated[i] = truncateRunesafe(text, maxChars)
	}

	var batches [][]string
	for start := 0; start < len(truncated); start += batchSize {
		end := min(start+batchSize, len(truncated))
		batches = append(batches, truncated[start:end])
	}

	results := make([][][]float32, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, batch := range batches {
		g.Go(func() error {
			vectors, err := b.embedWithRetry(gctx, batch, i+1, len(batches))
			if err != nil {
				return err
			}
			results[i] = vectors
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range results {
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// embedWithRetry sends one batch with bounded retries.
func (b *BatchEmbedder) embedWithRetry(ctx context.Context, batch []string, batchNum, totalBatches int) ([][]float32, error) {
	maxAttempts := b.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultEmbeddingAttempts
	}
	delay := b.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		vectors, err := b.Inner.EmbedBatch(ctx, batch)
		if err == nil {
			if len(vectors) != len(batch) {
				return nil, Errorf(EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			return vectors, nil
		}
		if ErrorCode(err) == EINVALID {
			return nil, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, &Error{
		Code:    EINTERNAL,
		Message: fmt.Sprintf("embedding batch %d/%d failed after %d attempts", batchNum, totalBatches, maxAttempts),
		Err:     lastErr,
	}
}

// maxChars returns the character budget derived from the token limit.
func (b *BatchEmbedder) maxChars() int {
	tokenLimit := b.TokenLimit
	if tokenLimit <= 0 {
		tokenLimit = DefaultEmbeddingTokenLimit
	}
	maxChars := tokenLimit*embeddingCharsPerToken - embeddingCharMargin
	if maxChars < 1 {
		maxChars = 1
	}
	return maxChars
}

// truncateRunesafe cuts text to at most n bytes without splitting a rune.
func truncateRunesafe(text string, n int) string {
	if len(text) <= n {
		return text
	}
	cut := text[:n]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		// The cut sliced through a multi-byte rune; drop the partial bytes.
		cut = cut[:len(cut)-1]
	}
	return cut
}
