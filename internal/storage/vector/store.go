package vector

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

var (
	ErrNoDocuments = errors.New("no documents were loaded")
	ErrNotBuilt    = errors.New("vector index has not been built")
)

// PassageEmbedder embeds queries for chromem and chunk batches for indexing.
type PassageEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error)
}

type Store struct {
	db       *chromem.DB
	name     string
	embedder PassageEmbedder

	mu         sync.RWMutex
	collection *chromem.Collection
}

func NewPersistent(path, collection string, embedder PassageEmbedder) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", path, err)
	}
	return newStore(db, collection, embedder), nil
}

func NewInMemory(collection string, embedder PassageEmbedder) *Store {
	return newStore(chromem.NewDB(), collection, embedder)
}

func newStore(db *chromem.DB, name string, embedder PassageEmbedder) *Store {
	return &Store{db: db, name: name, embedder: embedder}
}

// Open attaches to a previously built collection. It reports false when none exists.
func (s *Store) Open(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.db.GetCollection(s.name, s.embedder.EmbedQuery)
	if c == nil || c.Count() == 0 {
		return false
	}
	s.collection = c
	log.FromCtx(ctx).Debug().Str("collection", s.name).Int("count", c.Count()).Msg("opened vector collection")
	return true
}

// Build replaces the collection with the given chunks. On any failure no
// collection is left behind.
func (s *Store) Build(ctx context.Context, chunks []core.Chunk) error {
	logger := log.FromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.drop(); err != nil {
		return err
	}

	if len(chunks) == 0 {
		return ErrNoDocuments
	}

	vecs, err := s.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	c, err := s.db.GetOrCreateCollection(s.name, nil, s.embedder.EmbedQuery)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, ch := range chunks {
		docs = append(docs, chromem.Document{
			ID:      ch.ID,
			Content: ch.Content,
			Metadata: map[string]string{
				"source": ch.Source,
				"index":  strconv.Itoa(ch.Index),
				"tokens": strconv.Itoa(ch.TokenSize),
			},
			Embedding: vecs[i],
		})
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		if dropErr := s.drop(); dropErr != nil {
			logger.Error().Err(dropErr).Msg("failed to remove partial collection")
		}
		return fmt.Errorf("failed to add documents: %w", err)
	}

	s.collection = c
	logger.Info().Str("collection", s.name).Int("chunks", c.Count()).Msg("vector index built")
	return nil
}

// Query returns up to k passages ordered by similarity. k is clamped to the collection size.
func (s *Store) Query(ctx context.Context, question string, k int) ([]core.Passage, error) {
	s.mu.RLock()
	c := s.collection
	s.mu.RUnlock()

	if c == nil {
		return nil, ErrNotBuilt
	}

	n := min(k, c.Count())
	if n <= 0 {
		return nil, nil
	}

	res, err := c.Query(ctx, question, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	out := make([]core.Passage, 0, len(res))
	for _, r := range res {
		idx, _ := strconv.Atoi(r.Metadata["index"])
		out = append(out, core.Passage{
			Source:     r.Metadata["source"],
			Index:      idx,
			Content:    r.Content,
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return 0
	}
	return s.collection.Count()
}

func (s *Store) Exists() bool {
	_, ok := s.db.ListCollections()[s.name]
	return ok
}

func (s *Store) drop() error {
	s.collection = nil
	if !s.Exists() {
		return nil
	}
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.name, err)
	}
	return nil
}
