package responder

import (
	"context"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/storage/sqldb"
)

// Completer is the slice of the LLM provider the responders need.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Retriever interface {
	Query(ctx context.Context, question string, k int) ([]core.Passage, error)
}

type Database interface {
	TableInfo(ctx context.Context) (string, error)
	Execute(ctx context.Context, query string) (*sqldb.Result, error)
}

// Source hands out a dependency, building it on first use.
type Source[T any] func(ctx context.Context) (T, error)

// Fixed wraps an already built dependency.
func Fixed[T any](v T) Source[T] {
	return func(context.Context) (T, error) { return v, nil }
}
