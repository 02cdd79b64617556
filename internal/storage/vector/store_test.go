package vector

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocab = []string{"attention", "transformer", "bert", "album", "sales", "track"}

// bagOfWords embeds text as keyword counts plus a constant bias so no vector is zero.
type bagOfWords struct {
	failChunks error
}

func (b *bagOfWords) vec(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(vocab)+1)
	for i, w := range vocab {
		v[i] = float32(strings.Count(text, w))
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	v[len(vocab)] = 0.01 + float32(h.Sum32()%7)/1000
	return v
}

func (b *bagOfWords) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return b.vec(text), nil
}

func (b *bagOfWords) EmbedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	if b.failChunks != nil {
		return nil, b.failChunks
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = b.vec(c.Content)
	}
	return out, nil
}

func corpus() []core.Chunk {
	return []core.Chunk{
		{ID: "1", Source: "attention.pdf", Index: 0, Content: "The transformer relies on attention, attention everywhere."},
		{ID: "2", Source: "bert.docx", Index: 0, Content: "BERT is a bidirectional transformer encoder."},
		{ID: "3", Source: "misc.pdf", Index: 3, Content: "Sales of the album grew, every track sold."},
	}
}

func TestStore_BuildAndQuery(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory("my_collection", &bagOfWords{})

	require.NoError(t, s.Build(ctx, corpus()))
	assert.Equal(t, 3, s.Count())

	got, err := s.Query(ctx, "what is attention in a transformer?", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "attention.pdf", got[0].Source)
}

func TestStore_QueryClampsK(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory("my_collection", &bagOfWords{})
	require.NoError(t, s.Build(ctx, corpus()))

	got, err := s.Query(ctx, "album sales", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "misc.pdf", got[0].Source)
	assert.Equal(t, 3, got[0].Index)
}

func TestStore_EmptyBuild(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory("my_collection", &bagOfWords{})

	err := s.Build(ctx, nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.False(t, s.Exists())

	_, err = s.Query(ctx, "anything", 4)
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestStore_EmptyBuildDropsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory("my_collection", &bagOfWords{})
	require.NoError(t, s.Build(ctx, corpus()))

	assert.ErrorIs(t, s.Build(ctx, nil), ErrNoDocuments)
	assert.False(t, s.Exists())
	assert.Equal(t, 0, s.Count())
}

func TestStore_EmbeddingFailureLeavesNoCollection(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	s := NewInMemory("my_collection", &bagOfWords{failChunks: boom})

	err := s.Build(ctx, corpus())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Exists())
}

func TestStore_RebuildReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory("my_collection", &bagOfWords{})
	require.NoError(t, s.Build(ctx, corpus()))

	require.NoError(t, s.Build(ctx, corpus()[:1]))
	assert.Equal(t, 1, s.Count())
}

func TestStore_PersistentReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	emb := &bagOfWords{}

	s, err := NewPersistent(dir, "my_collection", emb)
	require.NoError(t, err)
	require.NoError(t, s.Build(ctx, corpus()))

	reopened, err := NewPersistent(dir, "my_collection", emb)
	require.NoError(t, err)
	require.True(t, reopened.Open(ctx))
	assert.Equal(t, 3, reopened.Count())

	got, err := reopened.Query(ctx, "bert encoder", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bert.docx", got[0].Source)
}
