package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

type Operation = func() error

// permanentError marks a failure that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Config describes a capped exponential backoff. Delays double from InitialDelay
// up to MaxDelay, each shifted by a random amount within ±Jitter.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:   5,
		InitialDelay: 300 * time.Millisecond,
		MaxDelay:     20 * time.Second,
		Jitter:       50 * time.Millisecond,
	}
}

// WithMaxRetries returns a copy of the default config with the retry count replaced.
func WithMaxRetries(n int) *Config {
	c := NewDefaultConfig()
	c.MaxRetries = n
	return c
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Retrier{config: config}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// backoff is stateful, so every Do builds a fresh one.
func (r *Retrier) backoff() goretry.Backoff {
	initial := r.config.InitialDelay
	if initial <= 0 {
		initial = time.Millisecond
	}
	maxRetries := r.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	b := goretry.NewExponential(initial)
	if r.config.Jitter > 0 {
		b = goretry.WithJitter(r.config.Jitter, b)
	}
	if r.config.MaxDelay > 0 {
		b = goretry.WithCappedDuration(r.config.MaxDelay, b)
	}
	return goretry.WithMaxRetries(uint64(maxRetries), b)
}

// Do runs op until it succeeds, returns a Permanent error, runs out of retries
// or ctx is done. The last error of op is returned unwrapped.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	return goretry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		return goretry.RetryableError(err)
	})
}
