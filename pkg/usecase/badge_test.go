package usecase_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
	"github.com/secmon-lab/badgeforge/pkg/repository/memory"
	"github.com/secmon-lab/badgeforge/pkg/service/icon"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
)

func newIconMatcher(t *testing.T) *icon.Matcher {
	t.Helper()
	catalog, err := icon.DefaultCatalog()
	gt.NoError(t, err).Required()
	return icon.NewMatcher(catalog)
}

func TestBadgeUseCase_Generate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	gen := &mockGenerator{outputs: []string{"Here you go:\n" + validOutput}}
	uc := usecase.New(repo,
		usecase.WithGenerator(gen),
		usecase.WithIconSuggester(newIconMatcher(t)),
	)

	result, err := uc.Badge.Generate(ctx, &model.GenerationRequest{
		CourseInput: "Intro to Python: variables, functions, loops",
		BadgeStyle:  "Technical",
		BadgeLevel:  "Beginner",
	})
	gt.NoError(t, err).Required()

	badge := result.Badge
	gt.S(t, badge.ID.String()).NotEqual("")
	gt.S(t, badge.Name).Equal("Python Foundations Achiever")
	gt.S(t, badge.Description).NotEqual("")
	gt.S(t, badge.Criteria.Narrative).NotEqual("")
	gt.Number(t, badge.Attempts).Equal(1)
	gt.Value(t, badge.Parameters.Style).Equal(types.BadgeStyleTechnical)
	gt.Value(t, badge.Parameters.Level).Equal(types.BadgeLevelBeginner)
	gt.B(t, badge.Parameters.Tone.IsValid()).True()
	gt.B(t, badge.Parameters.Criterion.IsValid()).True()

	prompts := gen.Prompts()
	gt.Array(t, prompts).Length(1).Required()
	gt.S(t, prompts[0]).Contains("Intro to Python: variables, functions, loops")
	gt.S(t, prompts[0]).Contains(types.BadgeStyleTechnical.Guidance())
	gt.S(t, prompts[0]).Contains(types.BadgeLevelBeginner.Guidance())

	gt.V(t, result.Icon).NotNil()
	gt.S(t, result.Icon.Name).NotEqual("")

	gt.Value(t, result.Stages).Equal([]model.Stage{
		model.StageReceived,
		model.StageParsed,
		model.StageParametersResolved,
		model.StagePromptBuilt,
		model.StageGenerating,
		model.StageExtracting,
		model.StageStored,
		model.StageIconSuggested,
		model.StageCompleted,
	})

	stored, err := uc.History.Get(ctx, badge.ID)
	gt.NoError(t, err).Required()
	gt.S(t, stored.Name).Equal(badge.Name)
}

func TestBadgeUseCase_GenerateWithoutIcons(t *testing.T) {
	gen := &mockGenerator{outputs: []string{validOutput}}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	result, err := uc.Badge.Generate(context.Background(), &model.GenerationRequest{CourseInput: "Python"})
	gt.NoError(t, err).Required()
	gt.V(t, result.Icon).Nil()
	gt.B(t, slices.Contains(result.Stages, model.StageIconSuggested)).False()
	gt.Value(t, result.Stages[len(result.Stages)-1]).Equal(model.StageCompleted)
}

func TestBadgeUseCase_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("recovers after unusable answer", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{"I think the badge should be about Python.", validOutput}}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		result, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.NoError(t, err).Required()
		gt.Number(t, result.Badge.Attempts).Equal(2)

		prompts := gen.Prompts()
		gt.Array(t, prompts).Length(2).Required()
		gt.S(t, prompts[0]).NotContains("no prose")
		gt.S(t, prompts[1]).Contains("Return JSON only, no prose")

		gt.Value(t, result.Stages).Equal([]model.Stage{
			model.StageReceived,
			model.StageParsed,
			model.StageParametersResolved,
			model.StagePromptBuilt,
			model.StageGenerating,
			model.StageExtracting,
			model.StageGenerating,
			model.StageExtracting,
			model.StageStored,
			model.StageCompleted,
		})
	})

	t.Run("fails after bounded attempts", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{"no json at all"}}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.Error(t, err).Is(model.ErrGenerationFormat)
		gt.Array(t, gen.Prompts()).Length(3)
		gt.Number(t, repo.History().Len(ctx)).Equal(0)

		var ge *goerr.Error
		gt.B(t, errors.As(err, &ge)).True()
		gt.Value(t, ge.Values()[model.RawOutputKey]).Equal("no json at all")
		gt.Value(t, ge.Values()[model.AttemptsKey]).Equal(3)
	})

	t.Run("retry count is configurable", func(t *testing.T) {
		gen := &mockGenerator{outputs: []string{"nope"}}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen), usecase.WithMaxRetries(0))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.Error(t, err).Is(model.ErrGenerationFormat)
		gt.Array(t, gen.Prompts()).Length(1)
	})
}

func TestBadgeUseCase_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty course input", func(t *testing.T) {
		gen := &mockGenerator{outputs: []string{validOutput}}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "  "})
		gt.Error(t, err).Is(model.ErrInvalidInput)
		gt.Array(t, gen.Prompts()).Length(0)
	})

	t.Run("invalid parameter", func(t *testing.T) {
		gen := &mockGenerator{outputs: []string{validOutput}}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python", BadgeTone: "Sarcastic"})
		gt.Error(t, err).Is(model.ErrInvalidParameter)
		gt.Array(t, gen.Prompts()).Length(0)
	})

	t.Run("inference unavailable is not retried", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{err: goerr.Wrap(model.ErrInferenceUnavailable, "connection refused")}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.Error(t, err).Is(model.ErrInferenceUnavailable)
		gt.Array(t, gen.Prompts()).Length(1)
		gt.Number(t, repo.History().Len(ctx)).Equal(0)
	})

	t.Run("no generator configured", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.Error(t, err).Is(model.ErrInferenceUnavailable)
	})

	t.Run("cancelled while generating", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{validOutput}, delay: time.Second}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
		gt.Error(t, err).Is(context.DeadlineExceeded)
		gt.Number(t, repo.History().Len(context.Background())).Equal(0)
	})
}

func TestBadgeUseCase_MaxConcurrency(t *testing.T) {
	ctx := context.Background()
	gen := &mockGenerator{outputs: []string{validOutput}, delay: 20 * time.Millisecond}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen), usecase.WithMaxConcurrency(1))

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Python"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		gt.NoError(t, err)
	}
	gt.Number(t, gen.maxSeen.Load()).Equal(int32(1))
}

func TestBadgeUseCase_Regenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("re-rolls requested dimensions only", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{validOutput}}
		uc := usecase.New(repo, usecase.WithGenerator(gen), usecase.WithRandSource(&fixedRand{n: 0}))

		first, err := uc.Badge.Generate(ctx, &model.GenerationRequest{
			CourseInput:    "Python; SQL",
			BadgeStyle:     "Creative",
			BadgeTone:      "Engaging",
			CriterionStyle: "Outcome-Focused",
			BadgeLevel:     "Expert",
			Institution:    "Example University",
		})
		gt.NoError(t, err).Required()

		second, err := uc.Badge.Regenerate(ctx, &model.RegenerateRequest{
			BadgeID:    first.Badge.ID,
			Dimensions: []string{"badge_tone"},
		})
		gt.NoError(t, err).Required()

		gt.S(t, second.Badge.ID.String()).NotEqual(first.Badge.ID.String())
		gt.Value(t, second.Badge.Parameters).Equal(model.Parameters{
			Style:     types.BadgeStyleCreative,
			Tone:      types.BadgeToneAuthoritative,
			Criterion: types.CriterionStyleOutcomeFocused,
			Level:     types.BadgeLevelExpert,
		})
		gt.S(t, second.Badge.CourseInput).Equal("Python; SQL")
		gt.S(t, second.Badge.Institution).Equal("Example University")
		gt.Value(t, second.Badge.Metadata["regenerated_from"]).Equal(first.Badge.ID.String())
		gt.Number(t, repo.History().Len(ctx)).Equal(2)

		prompts := gen.Prompts()
		gt.Array(t, prompts).Length(2).Required()
		gt.S(t, prompts[1]).Contains("Multiple courses:\n1. Python\n2. SQL")
	})

	t.Run("empty id uses latest badge", func(t *testing.T) {
		repo := memory.New()
		gen := &mockGenerator{outputs: []string{validOutput}}
		uc := usecase.New(repo, usecase.WithGenerator(gen))

		_, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Rust"})
		gt.NoError(t, err).Required()
		latest, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Go"})
		gt.NoError(t, err).Required()

		result, err := uc.Badge.Regenerate(ctx, &model.RegenerateRequest{})
		gt.NoError(t, err).Required()
		gt.S(t, result.Badge.CourseInput).Equal("Go")
		gt.Value(t, result.Badge.Parameters).Equal(latest.Badge.Parameters)
	})

	t.Run("empty history", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&mockGenerator{outputs: []string{validOutput}}))
		_, err := uc.Badge.Regenerate(ctx, &model.RegenerateRequest{})
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("unknown badge", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&mockGenerator{outputs: []string{validOutput}}))
		_, err := uc.Badge.Regenerate(ctx, &model.RegenerateRequest{BadgeID: model.NewBadgeID()})
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		gen := &mockGenerator{outputs: []string{validOutput}}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

		first, err := uc.Badge.Generate(ctx, &model.GenerationRequest{CourseInput: "Go"})
		gt.NoError(t, err).Required()

		_, err = uc.Badge.Regenerate(ctx, &model.RegenerateRequest{
			BadgeID:    first.Badge.ID,
			Dimensions: []string{"badge_color"},
		})
		gt.Error(t, err).Is(model.ErrInvalidParameter)
	})
}
