package usecase_test

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

const validOutput = `{"badge_name": "Python Foundations Achiever", "badge_description": "Awarded for writing Python programs with variables, functions and loops.", "criteria": {"narrative": "Learners complete coding exercises and a final project."}}`

// mockGenerator answers with outputs in order; the last one repeats when exhausted
type mockGenerator struct {
	mu      sync.Mutex
	outputs []string
	err     error
	delay   time.Duration
	// chunk splits streamed output into pieces of this many bytes
	chunk int

	prompts  []string
	options  []model.GenerationOptions
	stopped  bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

var _ interfaces.Generator = (*mockGenerator)(nil)

func (m *mockGenerator) next(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	idx := min(len(m.prompts)-1, len(m.outputs)-1)
	return m.outputs[idx], nil
}

func (m *mockGenerator) track(ctx context.Context) error {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts model.GenerationOptions) (*model.Completion, error) {
	m.mu.Lock()
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if err := m.track(ctx); err != nil {
		return nil, err
	}
	text, err := m.next(prompt)
	if err != nil {
		return nil, err
	}
	return &model.Completion{Text: text, Model: "mock"}, nil
}

func (m *mockGenerator) Stream(ctx context.Context, prompt string, opts model.GenerationOptions) iter.Seq2[*model.Fragment, error] {
	return func(yield func(*model.Fragment, error) bool) {
		text, err := m.next(prompt)
		if err != nil {
			yield(nil, err)
			return
		}

		size := m.chunk
		if size <= 0 {
			size = 16
		}
		for i := 0; i < len(text); i += size {
			end := min(i+size, len(text))
			if !yield(&model.Fragment{Delta: text[i:end], Text: text[:end]}, nil) {
				m.mu.Lock()
				m.stopped = true
				m.mu.Unlock()
				return
			}
		}
		yield(&model.Fragment{Text: text, Done: true}, nil)
	}
}

func (m *mockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *mockGenerator) Options() []model.GenerationOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.GenerationOptions(nil), m.options...)
}

func (m *mockGenerator) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// fixedRand always returns n modulo the requested range
type fixedRand struct {
	n     int
	calls int
}

func (r *fixedRand) IntN(n int) int {
	r.calls++
	return r.n % n
}
