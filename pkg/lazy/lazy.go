package lazy

import (
	"context"
	"sync"
)

// Value builds T on first successful Get and caches it. A failed build is not
// cached, so the next caller tries again.
type Value[T any] struct {
	mu    sync.Mutex
	init  func(ctx context.Context) (T, error)
	val   T
	ready bool
}

func New[T any](init func(ctx context.Context) (T, error)) *Value[T] {
	return &Value[T]{init: init}
}

func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ready {
		return v.val, nil
	}

	val, err := v.init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	v.val, v.ready = val, true
	return val, nil
}

// Peek returns the cached value without building it.
func (v *Value[T]) Peek() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val, v.ready
}
