package interfaces

import (
	"context"
	"iter"

	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// Generator sends prompts to an inference backend
type Generator interface {
	// Generate returns the full completion for prompt
	Generate(ctx context.Context, prompt string, opts model.GenerationOptions) (*model.Completion, error)

	// Stream yields fragments as they arrive. The last fragment has Done set.
	// Stopping the iteration early releases the underlying connection.
	Stream(ctx context.Context, prompt string, opts model.GenerationOptions) iter.Seq2[*model.Fragment, error]
}

// HealthChecker reports whether an inference backend can serve requests
type HealthChecker interface {
	Ping(ctx context.Context) (*model.InferenceStatus, error)
}
