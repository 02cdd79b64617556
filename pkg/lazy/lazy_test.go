package lazy

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestValue_BuildsOnce(t *testing.T) {
	calls := 0
	v := New(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := v.Get(context.Background()); err != nil || got != 42 {
				t.Errorf("Get() = %d, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected 1 build, got %d", calls)
	}
}

func TestValue_RetriesAfterError(t *testing.T) {
	calls := 0
	v := New(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("not yet")
		}
		return "ready", nil
	})

	if _, ok := v.Peek(); ok {
		t.Fatal("value should not be ready before Get")
	}
	if _, err := v.Get(context.Background()); err == nil {
		t.Fatal("expected first Get to fail")
	}
	got, err := v.Get(context.Background())
	if err != nil || got != "ready" {
		t.Fatalf("Get() = %q, %v", got, err)
	}
	if _, ok := v.Peek(); !ok {
		t.Error("value should be cached")
	}
}
