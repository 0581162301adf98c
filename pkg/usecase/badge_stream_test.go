package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
	"github.com/secmon-lab/badgeforge/pkg/repository/memory"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
	"go.uber.org/goleak"
)

func collect(uc *usecase.UseCases, req *model.GenerationRequest) []*model.StreamEvent {
	var events []*model.StreamEvent
	for ev := range uc.Badge.GenerateStream(context.Background(), req) {
		events = append(events, ev)
	}
	return events
}

func TestBadgeUseCase_GenerateStream(t *testing.T) {
	repo := memory.New()
	gen := &mockGenerator{outputs: []string{validOutput}, chunk: 10}
	uc := usecase.New(repo, usecase.WithGenerator(gen), usecase.WithIconSuggester(newIconMatcher(t)))

	events := collect(uc, &model.GenerationRequest{CourseInput: "Intro to Python"})
	gt.Array(t, events).Length((len(validOutput)+9)/10 + 1).Required()

	var deltas strings.Builder
	for _, ev := range events[:len(events)-1] {
		gt.Value(t, ev.Type).Equal(model.StreamEventToken)
		gt.B(t, ev.Done).False()
		gt.Number(t, ev.Attempt).Equal(1)
		deltas.WriteString(ev.Delta)
		gt.S(t, ev.Accumulated).Equal(deltas.String())
	}
	gt.S(t, deltas.String()).Equal(validOutput)

	final := events[len(events)-1]
	gt.Value(t, final.Type).Equal(model.StreamEventFinal)
	gt.B(t, final.Done).True()
	gt.V(t, final.Result).NotNil()
	gt.S(t, final.Result.Badge.Name).Equal("Python Foundations Achiever")
	gt.S(t, final.Accumulated).Equal(validOutput)
	gt.V(t, final.Result.Icon).NotNil()

	gt.S(t, gen.Prompts()[0]).Contains("progressively")
	gt.Number(t, repo.History().Len(context.Background())).Equal(1)
}

func TestBadgeUseCase_GenerateStreamRetry(t *testing.T) {
	gen := &mockGenerator{outputs: []string{"not json", validOutput}, chunk: 64}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	events := collect(uc, &model.GenerationRequest{CourseInput: "Python"})
	gt.Value(t, events[0].Attempt).Equal(1)
	gt.S(t, events[0].Delta).Equal("not json")
	gt.Value(t, events[1].Attempt).Equal(2)

	final := events[len(events)-1]
	gt.Value(t, final.Type).Equal(model.StreamEventFinal)
	gt.Number(t, final.Attempt).Equal(2)
}

func TestBadgeUseCase_GenerateStreamError(t *testing.T) {
	t.Run("inference failure", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{err: goerr.Wrap(model.ErrInferenceUnavailable, "timeout")}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		events := collect(uc, &model.GenerationRequest{CourseInput: "Python"})
		gt.Array(t, events).Length(1).Required()
		gt.Value(t, events[0].Type).Equal(model.StreamEventError)
		gt.Value(t, events[0].Error.Kind).Equal(model.ErrorKindInferenceUnavailable)
		gt.S(t, events[0].Error.Message).Contains("timeout")
		gt.Number(t, repo.History().Len(context.Background())).Equal(0)
	})

	t.Run("format failure after tokens", func(t *testing.T) {
		gen := &mockGenerator{outputs: []string{"prose only"}, chunk: 100}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

		events := collect(uc, &model.GenerationRequest{CourseInput: "Python"})
		gt.Array(t, events).Length(4).Required()
		last := events[3]
		gt.Value(t, last.Type).Equal(model.StreamEventError)
		gt.Value(t, last.Error.Kind).Equal(model.ErrorKindGenerationFormat)
	})

	t.Run("invalid input", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&mockGenerator{outputs: []string{validOutput}}))

		events := collect(uc, &model.GenerationRequest{CourseInput: ""})
		gt.Array(t, events).Length(1).Required()
		gt.Value(t, events[0].Error.Kind).Equal(model.ErrorKindInvalidInput)
	})
}

func TestBadgeUseCase_GenerateStreamCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := memory.New()
	gen := &mockGenerator{outputs: []string{validOutput}, chunk: 5}
	uc := usecase.New(repo, usecase.WithGenerator(gen))

	received := 0
	for ev := range uc.Badge.GenerateStream(context.Background(), &model.GenerationRequest{CourseInput: "Python"}) {
		gt.Value(t, ev.Type).Equal(model.StreamEventToken)
		received++
		if received == 2 {
			break
		}
	}

	gt.Number(t, received).Equal(2)
	gt.B(t, gen.Stopped()).True()
	gt.Array(t, gen.Prompts()).Length(1)
	gt.Number(t, repo.History().Len(context.Background())).Equal(0)
}

func TestBadgeUseCase_RegenerateStream(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the regenerated badge", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{validOutput}, chunk: 32}
		uc := usecase.New(repo, usecase.WithGenerator(gen), usecase.WithRandSource(&fixedRand{n: 0}))

		first, err := uc.Badge.Generate(ctx, &model.GenerationRequest{
			CourseInput: "Python",
			BadgeTone:   "Concise",
			BadgeLevel:  "Expert",
		})
		gt.NoError(t, err).Required()

		var events []*model.StreamEvent
		for ev := range uc.Badge.RegenerateStream(ctx, &model.RegenerateRequest{
			BadgeID:    first.Badge.ID,
			Dimensions: []string{"badge_tone"},
		}) {
			events = append(events, ev)
		}
		gt.Array(t, events).Length((len(validOutput)+31)/32 + 1).Required()
		gt.Value(t, events[0].Type).Equal(model.StreamEventToken)

		final := events[len(events)-1]
		gt.Value(t, final.Type).Equal(model.StreamEventFinal)
		gt.V(t, final.Result).NotNil()
		badge := final.Result.Badge
		gt.Value(t, badge.Parameters.Tone).Equal(types.BadgeToneAuthoritative)
		gt.Value(t, badge.Parameters.Level).Equal(types.BadgeLevelExpert)
		gt.Value(t, badge.Metadata["regenerated_from"]).Equal(first.Badge.ID.String())
		gt.Value(t, badge.Metadata["regenerate_parameters"]).Equal([]string{"badge_tone"})

		prompts := gen.Prompts()
		gt.Array(t, prompts).Length(2).Required()
		gt.S(t, prompts[0]).NotContains("progressively")
		gt.S(t, prompts[1]).Contains("progressively")
		gt.Number(t, repo.History().Len(ctx)).Equal(2)
	})

	t.Run("empty history is one error event", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&mockGenerator{outputs: []string{validOutput}}))

		var events []*model.StreamEvent
		for ev := range uc.Badge.RegenerateStream(ctx, &model.RegenerateRequest{}) {
			events = append(events, ev)
		}
		gt.Array(t, events).Length(1).Required()
		gt.Value(t, events[0].Type).Equal(model.StreamEventError)
		gt.Value(t, events[0].Error.Kind).Equal(model.ErrorKindNotFound)
	})
}
