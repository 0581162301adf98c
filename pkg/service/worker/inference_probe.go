package worker

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
)

// InferenceProbeWorker periodically checks the inference backend and keeps the last result
//
// Architecture assumptions:
// - One probe per process; the status is only as fresh as the interval
type InferenceProbeWorker struct {
	checker  interfaces.HealthChecker
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu     sync.RWMutex
	status *model.InferenceStatus
}

// NewInferenceProbeWorker creates a new worker probing checker every interval
func NewInferenceProbeWorker(checker interfaces.HealthChecker, interval time.Duration) *InferenceProbeWorker {
	return &InferenceProbeWorker{
		checker:  checker,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the probe loop in the background. The first probe runs immediately.
func (w *InferenceProbeWorker) Start(ctx context.Context) error {
	logging.Default().Info("Inference probe worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *InferenceProbeWorker) Stop() {
	logging.Default().Info("Inference probe worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Inference probe worker stopped")
}

// Status returns a copy of the last observed status, or nil before the first probe
func (w *InferenceProbeWorker) Status() *model.InferenceStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.status == nil {
		return nil
	}
	copied := *w.status
	copied.Models = append([]string(nil), w.status.Models...)
	return &copied
}

func (w *InferenceProbeWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.probe(ctx)

		case <-w.stopCh:
			logging.Default().Info("Inference probe worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Inference probe worker context cancelled")
			return
		}
	}
}

// probe performs a single check. Failures are recorded, never fatal.
func (w *InferenceProbeWorker) probe(ctx context.Context) {
	status, err := w.checker.Ping(ctx)
	if err != nil {
		logging.Default().Warn("Inference backend is unreachable (will retry next interval)",
			"error", err.Error())
		status = &model.InferenceStatus{
			Error:     err.Error(),
			CheckedAt: time.Now().UTC(),
		}
	} else if !status.Available {
		logging.Default().Warn("Inference model is not available",
			"backend", status.Backend,
			"model", status.Model,
			"reason", status.Error)
	}

	w.mu.Lock()
	prev := w.status
	w.status = status
	w.mu.Unlock()

	if status.Available && (prev == nil || !prev.Available) {
		logging.Default().Info("Inference backend is available",
			"backend", status.Backend,
			"model", status.Model)
	}
}
