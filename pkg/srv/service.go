package srv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/tuskswarm/pkg/log"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds the whole shutdown sequence once Run is told to stop.
var ShutdownTimeout = 10 * time.Second

// Service is a long-running component. Start may block until Shutdown is called.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until ctx is done or one of them fails
// to start. Services are then shut down in reverse order. The first start
// error is returned.
func Run(ctx context.Context, services ...Service) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range services {
		g.Go(func() error {
			if err := s.Start(gctx); err != nil {
				return fmt.Errorf("%T failed to start: %w", s, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return shutdown(shutdownCtx, services)
	})

	return g.Wait()
}

func shutdown(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)

	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %w", errors.Join(errs...))
	}
	return nil
}

// onShutdown is a Service that only releases resources.
type onShutdown func() error

func (f onShutdown) Start(context.Context) error    { return nil }
func (f onShutdown) Shutdown(context.Context) error { return f() }

// OnShutdown wraps a close function, e.g. a database handle, as a Service.
func OnShutdown(fn func() error) Service {
	if fn == nil {
		fn = func() error { return nil }
	}
	return onShutdown(fn)
}
