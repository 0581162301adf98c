package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/service/worker"
	"go.uber.org/goleak"
)

type mockHealthChecker struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockHealthChecker) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockHealthChecker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockHealthChecker) Ping(ctx context.Context) (*model.InferenceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &model.InferenceStatus{
		Backend:   "mock",
		Model:     "phi4badges:latest",
		Available: true,
		Models:    []string{"phi4badges:latest"},
		CheckedAt: time.Now().UTC(),
	}, nil
}

func TestInferenceProbeWorker_InitialProbe(t *testing.T) {
	defer goleak.VerifyNone(t)

	checker := &mockHealthChecker{}
	w := worker.NewInferenceProbeWorker(checker, 10*time.Minute)
	gt.V(t, w.Status()).Nil()

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	status := w.Status()
	gt.V(t, status).NotNil()
	gt.B(t, status.Available).True()
	gt.S(t, status.Model).Equal("phi4badges:latest")
	gt.Number(t, checker.Calls()).Equal(1)
}

func TestInferenceProbeWorker_PeriodicProbe(t *testing.T) {
	defer goleak.VerifyNone(t)

	checker := &mockHealthChecker{}
	w := worker.NewInferenceProbeWorker(checker, 20*time.Millisecond)
	gt.NoError(t, w.Start(context.Background())).Required()

	time.Sleep(50 * time.Millisecond)
	checker.setError(goerr.Wrap(model.ErrInferenceUnavailable, "connection refused"))
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	gt.Number(t, checker.Calls()).GreaterOrEqual(3)
	status := w.Status()
	gt.B(t, status.Available).False()
	gt.S(t, status.Error).Contains("connection refused")
}

func TestInferenceProbeWorker_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewInferenceProbeWorker(&mockHealthChecker{}, time.Hour)
	gt.NoError(t, w.Start(ctx)).Required()

	cancel()
	w.Stop()
}

func TestInferenceProbeWorker_StatusIsCopy(t *testing.T) {
	w := worker.NewInferenceProbeWorker(&mockHealthChecker{}, time.Hour)
	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	s := w.Status()
	s.Models[0] = "changed"
	gt.S(t, w.Status().Models[0]).Equal("phi4badges:latest")
}
