package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"navigator/internal/config"
	"navigator/internal/logger"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Flusher writes dirty in-memory state to the backing stores
type Flusher interface {
	SaveDirtySessions(ctx context.Context) error
	SaveNewRoutes(ctx context.Context) error
}

// StartPersistenceWorkers saves dirty sessions to Redis and new routes to
// PostgreSQL on their own tickers
func StartPersistenceWorkers(ctx context.Context, flusher Flusher) {
	every(ctx, config.SessionBackupInterval, "sessions", flusher.SaveDirtySessions)
	every(ctx, config.RouteBackupInterval, "routes", flusher.SaveNewRoutes)

	logger.L().Info("Persistence workers started",
		zap.Duration("sessions", config.SessionBackupInterval),
		zap.Duration("routes", config.RouteBackupInterval))
}

// FlushAll runs both saves at once and reports every failure. Used on shutdown.
func FlushAll(ctx context.Context, flusher Flusher) error {
	var sessionsErr, routesErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := flusher.SaveDirtySessions(ctx); err != nil {
			sessionsErr = fmt.Errorf("save sessions: %w", err)
		}
	})
	wg.Go(func() {
		if err := flusher.SaveNewRoutes(ctx); err != nil {
			routesErr = fmt.Errorf("save routes: %w", err)
		}
	})
	wg.Wait()

	return errors.Join(sessionsErr, routesErr)
}

func every(ctx context.Context, interval time.Duration, name string, fn func(context.Context) error) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					logger.L().Error("Persistence worker failed", zap.String("worker", name), zap.Error(err))
				}
			}
		}
	}()
}
