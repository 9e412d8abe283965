// Package gemini provides a docpipe.Embedder backed by the Google Gemini API.
package gemini

import (
	"context"

	"github.com/fwojciec/docpipe"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is specified.
const DefaultModel = "gemini-embedding-001"

// Ensure Embedder implements docpipe.Embedder at compile time.
var _ docpipe.Embedder = (*Embedder)(nil)

// Embedder implements docpipe.Embedder using Google Gemini embeddings.
// Every returned vector is validated against the configured dimension; a
// mismatch means the model configuration is wrong, so it surfaces as
// EINVALID rather than a retryable failure.
type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewEmbedder creates a new Embedder for the given model and output
// dimension. An empty model falls back to DefaultModel.
func NewEmbedder(client *genai.Client, model string, dimension int) (*Embedder, error) {
	if dimension <= 0 {
		return nil, docpipe.Errorf(docpipe.EINVALID, "embedding dimension must be positive")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model, dimension: dimension}, nil
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	return e.model
}

// Dimension returns the configured output dimension.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// EmbedBatch embeds a batch of texts, returning one vector per input in
// order. Callers are expected to have truncated and batched the texts.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dim := int32(e.dimension)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, docpipe.Errorf(docpipe.EINTERNAL, "gemini returned nil result")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, docpipe.Errorf(docpipe.EINTERNAL, "expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) != e.dimension {
			got := 0
			if embedding != nil {
				got = len(embedding.Values)
			}
			return nil, docpipe.Errorf(docpipe.EINVALID, "embedding dimension mismatch: expected %d, got %d", e.dimension, got)
		}
		vectors[i] = embedding.Values
	}

	return vectors, nil
}
