package worker

import (
	"context"
	"runtime"
	"time"

	"navigator/internal/config"
	"navigator/internal/logger"

	"go.uber.org/zap"
)

// StartMemoryReporter logs runtime memory stats periodically
func StartMemoryReporter(ctx context.Context) {
	ticker := time.NewTicker(config.MemoryReportInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				logger.L().Info("Memory stats",
					zap.Uint64("alloc_mib", m.Alloc/1024/1024),
					zap.Uint64("total_alloc_mib", m.TotalAlloc/1024/1024),
					zap.Uint64("sys_mib", m.Sys/1024/1024),
					zap.Uint32("num_gc", m.NumGC))
			}
		}
	}()
}
