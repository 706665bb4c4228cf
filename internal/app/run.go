package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// runServices HTTP сервер и планировщик живут до отмены ctx или первой ошибки
func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"addr", deps.HTTPServer.Addr,
			"modules", deps.Registry.Status(),
		)

		if err := deps.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return deps.Scheduler.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")
		a.shutdown(deps)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}
	return nil
}

type namedCloser struct {
	name  string
	close func() error
}

// shutdown останавливает приём запросов, затем закрывает кэш и producer
func (a *App) shutdown(deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := deps.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Error("failed to shutdown http server", "error", err)
	}

	closers := []namedCloser{{"cache", deps.Cache.Close}}
	if deps.KafkaProducer != nil {
		closers = append(closers, namedCloser{"kafka producer", deps.KafkaProducer.Close})
	}

	for _, c := range closers {
		if err := c.close(); err != nil {
			a.Log.Error("failed to close "+c.name, "error", err)
		}
	}

	a.Log.Info("application shutdown completed")
}
