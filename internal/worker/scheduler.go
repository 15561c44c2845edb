package worker

import (
	"context"

	"navigator/internal/logger"
)

// StartAllWorkers initializes and starts all background workers.
// They stop when ctx is cancelled.
func StartAllWorkers(ctx context.Context, flusher Flusher) {
	logger.L().Info("Starting all workers...")

	StartPersistenceWorkers(ctx, flusher)
	StartMemoryReporter(ctx)

	logger.L().Info("All workers started")
}
