package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/repository/memory"
	"github.com/urfave/cli/v3"
)

// History holds configuration for the in-memory badge history
type History struct {
	capacity int
}

// Flags returns CLI flags for history configuration
func (h *History) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "history-capacity",
			Usage:       "Number of badges kept before the oldest is evicted",
			Value:       memory.DefaultHistoryCapacity,
			Category:    "History",
			Sources:     cli.EnvVars("BADGEFORGE_HISTORY_CAPACITY"),
			Destination: &h.capacity,
		},
	}
}

func (h *History) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("capacity", h.capacity),
	}
}

// Configure creates the history repository
func (h *History) Configure() (*memory.Memory, error) {
	if h.capacity < 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "history capacity must be positive",
			goerr.V(FieldKey, "history-capacity"), goerr.V("value", h.capacity))
	}
	return memory.New(memory.WithHistoryCapacity(h.capacity)), nil
}
