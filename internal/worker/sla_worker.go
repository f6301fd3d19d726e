package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/service"
)

// SlaWorker periodically marks tickets whose SLA deadlines have passed. The
// sweep only flips breach flags forward, so overlapping runs are harmless.
type SlaWorker struct {
	sla      *service.SlaService
	interval time.Duration
	logger   *zap.Logger
}

// NewSlaWorker constructs the worker.
func NewSlaWorker(slaService *service.SlaService, interval time.Duration, logger *zap.Logger) *SlaWorker {
	return &SlaWorker{sla: slaService, interval: interval, logger: logger}
}

// Run sweeps on a ticker until the context is cancelled.
func (w *SlaWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.interval = time.Minute
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sla worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla worker stopped")
			return
		case now := <-ticker.C:
			if err := w.sla.SweepBreaches(ctx, now.UTC()); err != nil {
				w.logger.Warn("sla sweep failed", zap.Error(err))
			}
		}
	}
}
