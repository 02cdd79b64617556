package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

type Loader interface {
	Load(ctx context.Context) ([]core.Document, error)
}

type Splitter interface {
	SplitAll(docs []core.Document) []core.Chunk
}

type Index interface {
	Build(ctx context.Context, chunks []core.Chunk) error
	Open(ctx context.Context) bool
	Count() int
}

type SourceStats struct {
	Source string
	Chunks int
	Tokens int
}

type Stats struct {
	Documents int
	Chunks    int
	Tokens    int
	Reused    bool
	Sources   []SourceStats
}

// Service turns the documents folder into a searchable index.
type Service struct {
	loader   Loader
	splitter Splitter
	index    Index
}

func NewService(loader Loader, splitter Splitter, index Index) *Service {
	return &Service{loader: loader, splitter: splitter, index: index}
}

// Run loads, chunks and indexes every document, replacing the previous index.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	logger := log.FromCtx(ctx)

	docs, err := s.loader.Load(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load documents: %w", err)
	}

	chunks := s.splitter.SplitAll(docs)
	stats := summarize(docs, chunks)

	logger.Info().
		Int("documents", stats.Documents).
		Int("chunks", stats.Chunks).
		Int("tokens", stats.Tokens).
		Msg("indexing documents")

	if err := s.index.Build(ctx, chunks); err != nil {
		return stats, err
	}
	return stats, nil
}

// Ensure reuses a persisted index when allowed, otherwise rebuilds it.
func (s *Service) Ensure(ctx context.Context, rebuild bool) (Stats, error) {
	if !rebuild && s.index.Open(ctx) {
		log.FromCtx(ctx).Info().Int("chunks", s.index.Count()).Msg("reusing existing vector index")
		return Stats{Chunks: s.index.Count(), Reused: true}, nil
	}
	return s.Run(ctx)
}

func summarize(docs []core.Document, chunks []core.Chunk) Stats {
	perSource := make(map[string]*SourceStats)
	stats := Stats{Documents: len(docs), Chunks: len(chunks)}

	for _, d := range docs {
		perSource[d.Source] = &SourceStats{Source: d.Source}
	}
	for _, c := range chunks {
		ss, ok := perSource[c.Source]
		if !ok {
			ss = &SourceStats{Source: c.Source}
			perSource[c.Source] = ss
		}
		ss.Chunks++
		ss.Tokens += c.TokenSize
		stats.Tokens += c.TokenSize
	}

	for _, ss := range perSource {
		stats.Sources = append(stats.Sources, *ss)
	}
	sort.Slice(stats.Sources, func(i, j int) bool {
		return stats.Sources[i].Source < stats.Sources[j].Source
	})
	return stats
}
