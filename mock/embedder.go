package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docpipe.Embedder.
type Embedder struct {
	EmbedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}
