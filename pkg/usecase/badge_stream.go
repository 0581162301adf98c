package usecase

import (
	"context"
	"errors"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// GenerateStream runs the pipeline in streaming mode. It yields a token event per
// received fragment and ends with either one final event or one error event.
// Stopping the iteration cancels generation and nothing is stored.
func (uc *BadgeUseCase) GenerateStream(ctx context.Context, req *model.GenerationRequest) iter.Seq[*model.StreamEvent] {
	return func(yield func(*model.StreamEvent) bool) {
		uc.runStream(ctx, &generation{req: req}, yield)
	}
}

// RegenerateStream is Regenerate in streaming mode, with the same events as GenerateStream
func (uc *BadgeUseCase) RegenerateStream(ctx context.Context, req *model.RegenerateRequest) iter.Seq[*model.StreamEvent] {
	return func(yield func(*model.StreamEvent) bool) {
		g, err := uc.regeneration(ctx, req)
		if err != nil {
			yield(&model.StreamEvent{
				Type:  model.StreamEventError,
				Error: model.NewErrorPayload(err),
			})
			return
		}
		uc.runStream(ctx, g, yield)
	}
}

func (uc *BadgeUseCase) runStream(ctx context.Context, g *generation, yield func(*model.StreamEvent) bool) {
	g.mode = PromptModeStream
	g.generate = uc.streamTo(yield)

	result, err := uc.run(ctx, g)
	if err != nil {
		if errors.Is(err, errStreamStopped) {
			return
		}
		yield(&model.StreamEvent{
			Type:  model.StreamEventError,
			Error: model.NewErrorPayload(err),
		})
		return
	}

	yield(&model.StreamEvent{
		Type:        model.StreamEventFinal,
		Attempt:     result.Badge.Attempts,
		Accumulated: result.Badge.RawOutput,
		Done:        true,
		Result:      result,
	})
}

// streamTo returns a generateFunc that forwards every fragment to yield as a token event
func (uc *BadgeUseCase) streamTo(yield func(*model.StreamEvent) bool) generateFunc {
	return func(ctx context.Context, prompt string, attempt int) (string, error) {
		release, err := uc.acquire(ctx)
		if err != nil {
			return "", err
		}
		defer release()

		for frag, err := range uc.generator.Stream(ctx, prompt, uc.options) {
			if err != nil {
				return "", goerr.Wrap(err, "failed to stream badge text", goerr.V(AttemptKey, attempt))
			}

			if frag.Delta != "" {
				event := &model.StreamEvent{
					Type:        model.StreamEventToken,
					Attempt:     attempt,
					Delta:       frag.Delta,
					Accumulated: frag.Text,
				}
				if !yield(event) {
					return "", errStreamStopped
				}
			}

			if frag.Done {
				return frag.Text, nil
			}
		}

		return "", goerr.Wrap(model.ErrInferenceUnavailable, "stream ended without completion",
			goerr.V(AttemptKey, attempt))
	}
}
