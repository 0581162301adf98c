package memory

import (
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
)

// DefaultHistoryCapacity is the number of badges kept when no capacity is configured
const DefaultHistoryCapacity = 50

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	history *historyRepository
}

var _ interfaces.Repository = &Memory{}

type Option func(*Memory)

// WithHistoryCapacity sets how many badges are kept before the oldest is evicted.
// Non-positive values keep the default.
func WithHistoryCapacity(capacity int) Option {
	return func(m *Memory) {
		if capacity > 0 {
			m.history.capacity = capacity
		}
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		history: newHistoryRepository(DefaultHistoryCapacity),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}
