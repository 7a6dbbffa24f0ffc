package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultDLQRetention is how long dead-lettered jobs are kept.
	DefaultDLQRetention = 7 * 24 * time.Hour
	// DefaultGCInterval is how often the DLQ is swept.
	DefaultGCInterval = time.Hour
)

// DLQGarbageCollector periodically purges expired jobs from the DLQ.
type DLQGarbageCollector struct {
	purger    DLQPurger
	logger    *zap.Logger
	retention time.Duration
	interval  time.Duration
}

// NewDLQGarbageCollector creates a collector with the given retention
// and sweep interval. Non-positive values fall back to defaults.
func NewDLQGarbageCollector(purger DLQPurger, logger *zap.Logger, retention, interval time.Duration) *DLQGarbageCollector {
	if retention <= 0 {
		retention = DefaultDLQRetention
	}
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &DLQGarbageCollector{
		purger:    purger,
		logger:    logger,
		retention: retention,
		interval:  interval,
	}
}

// Run sweeps the DLQ until the context is cancelled. It performs one
// sweep immediately so restarts do not delay cleanup by an interval.
func (gc *DLQGarbageCollector) Run(ctx context.Context) {
	gc.sweep(ctx)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gc.sweep(ctx)
		}
	}
}

func (gc *DLQGarbageCollector) sweep(ctx context.Context) {
	purged, err := gc.purger.PurgeOlderThan(ctx, gc.retention)
	if err != nil {
		gc.logger.Error("dlq_sweep_failed",
			zap.Error(err),
			zap.Int("purged", purged))
		return
	}
	if purged > 0 {
		gc.logger.Info("dlq_sweep_completed",
			zap.Int("purged", purged),
			zap.Duration("retention", gc.retention))
	}
}
