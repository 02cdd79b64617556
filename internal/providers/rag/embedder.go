package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const defaultBatchSize = 64

var ErrEmptyEmbedding = errors.New("embedding provider returned no vector")

// Embedder batches passage embedding and embeds single queries for the vector store.
type Embedder struct {
	provider  core.Embedder
	batchSize int
}

func NewEmbedder(provider core.Embedder) *Embedder {
	return &Embedder{provider: provider, batchSize: defaultBatchSize}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vecs[0], nil
}

// EmbedChunks returns one vector per chunk, in order.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	logger := log.FromCtx(ctx)
	out := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += e.batchSize {
		end := min(start+e.batchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		vecs, err := e.provider.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmptyEmbedding, len(vecs), len(texts))
		}
		out = append(out, vecs...)

		logger.Debug().Int("done", end).Int("total", len(chunks)).Msg("embedded chunk batch")
	}
	return out, nil
}
