package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxRetries is the number of extra attempts after an unusable answer
	DefaultMaxRetries = 2
	// DefaultIconTopK is the number of icons returned with a badge, the chosen one included
	DefaultIconTopK = 3
)

// BadgeUseCase runs the badge generation pipeline:
// parse, resolve parameters, build prompt, generate, extract, store, suggest icon.
type BadgeUseCase struct {
	repo       interfaces.Repository
	generator  interfaces.Generator
	resolver   *ParameterResolver
	icons      interfaces.IconSuggester
	options    model.GenerationOptions
	sem        *semaphore.Weighted
	maxRetries int
	iconTopK   int
}

// generateFunc produces raw model output for prompt. attempt starts at 1.
type generateFunc func(ctx context.Context, prompt string, attempt int) (string, error)

// generation describes one pipeline run
type generation struct {
	req *model.GenerationRequest
	// preset skips parameter resolution when set
	preset   *model.Parameters
	metadata map[string]any
	mode     PromptMode
	generate generateFunc
}

// badgeRun records the stages a single run went through
type badgeRun struct {
	logger *slog.Logger
	stages []model.Stage
}

func (r *badgeRun) enter(stage model.Stage) {
	r.stages = append(r.stages, stage)
	r.logger.Debug("badge pipeline stage", "stage", stage)
}

func (r *badgeRun) fail(err error) error {
	r.enter(model.StageFailed)
	r.logger.Debug("badge pipeline failed", "kind", model.KindOf(err), "error", err)
	return err
}

// Generate creates a badge from req and stores it in history
func (uc *BadgeUseCase) Generate(ctx context.Context, req *model.GenerationRequest) (*model.BadgeResult, error) {
	return uc.run(ctx, &generation{
		req:      req,
		mode:     PromptModeComplete,
		generate: uc.complete,
	})
}

// Regenerate runs the pipeline again for a stored badge with the requested dimensions re-rolled.
// An empty BadgeID selects the most recent badge.
func (uc *BadgeUseCase) Regenerate(ctx context.Context, req *model.RegenerateRequest) (*model.BadgeResult, error) {
	g, err := uc.regeneration(ctx, req)
	if err != nil {
		return nil, err
	}
	g.mode = PromptModeComplete
	g.generate = uc.complete
	return uc.run(ctx, g)
}

// regeneration prepares a run from the stored base badge. Mode and generate are left to the caller.
func (uc *BadgeUseCase) regeneration(ctx context.Context, req *model.RegenerateRequest) (*generation, error) {
	base, err := uc.regenerationBase(ctx, req.BadgeID)
	if err != nil {
		return nil, err
	}

	params, err := uc.resolver.Reroll(base.Parameters, req.Dimensions)
	if err != nil {
		return nil, err
	}

	return &generation{
		req: &model.GenerationRequest{
			CourseInput:        base.CourseInput,
			Institution:        base.Institution,
			CustomInstructions: base.CustomInstructions,
		},
		preset: &params,
		metadata: map[string]any{
			"regenerated_from":      base.ID.String(),
			"regenerate_parameters": slices.Clone(req.Dimensions),
		},
	}, nil
}

func (uc *BadgeUseCase) regenerationBase(ctx context.Context, id model.BadgeID) (*model.Badge, error) {
	if id == "" {
		base, err := uc.repo.History().Latest(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "no badge to regenerate")
		}
		return base, nil
	}

	base, err := uc.repo.History().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get badge to regenerate", goerr.V(model.BadgeIDKey, id))
	}
	return base, nil
}

func (uc *BadgeUseCase) run(ctx context.Context, g *generation) (*model.BadgeResult, error) {
	r := &badgeRun{logger: logging.From(ctx)}
	r.enter(model.StageReceived)

	segments, err := ParseCourseInput(g.req.CourseInput)
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(model.StageParsed)

	var params model.Parameters
	if g.preset != nil {
		params = *g.preset
	} else if params, err = uc.resolver.Resolve(g.req); err != nil {
		return nil, r.fail(err)
	}
	r.enter(model.StageParametersResolved)

	input := PromptInput{
		Segments:           segments,
		Parameters:         params,
		Institution:        g.req.Institution,
		CustomInstructions: g.req.CustomInstructions,
		Mode:               g.mode,
	}
	prompt, err := BuildPrompt(input)
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(model.StagePromptBuilt)

	var (
		badge      *model.Badge
		raw        string
		extractErr error
		attempts   int
	)
	for attempts < 1+uc.maxRetries {
		attempts++

		r.enter(model.StageGenerating)
		raw, err = g.generate(ctx, prompt, attempts)
		if err != nil {
			return nil, r.fail(err)
		}

		r.enter(model.StageExtracting)
		if badge, extractErr = extractBadge(raw); extractErr == nil {
			break
		}
		r.logger.Debug("generated text rejected", "attempt", attempts, "error", extractErr)

		if !input.Strict {
			input.Strict = true
			if prompt, err = BuildPrompt(input); err != nil {
				return nil, r.fail(err)
			}
		}
	}
	if badge == nil {
		return nil, r.fail(goerr.Wrap(extractErr, "no usable badge in generated text",
			goerr.V(model.AttemptsKey, attempts),
			goerr.V(model.RawOutputKey, raw),
		))
	}

	badge.Parameters = params
	badge.CourseInput = g.req.CourseInput
	badge.Institution = g.req.Institution
	badge.CustomInstructions = g.req.CustomInstructions
	badge.RawOutput = raw
	badge.Attempts = attempts
	badge.Metadata = g.metadata

	result, err := uc.store(ctx, r, badge)
	if err != nil {
		return nil, err
	}

	r.logger.Info("badge generated",
		"badge_id", result.Badge.ID,
		"attempts", attempts,
		"parameters", result.Badge.Parameters,
		"segments", len(segments),
	)
	return result, nil
}

// store saves badge to history and suggests its icon, completing r
func (uc *BadgeUseCase) store(ctx context.Context, r *badgeRun, badge *model.Badge) (*model.BadgeResult, error) {
	// A cancelled request must not leave a record behind
	if err := ctx.Err(); err != nil {
		return nil, r.fail(goerr.Wrap(model.ErrInferenceUnavailable, "request cancelled before storing badge",
			goerr.V("cause", err.Error())))
	}

	stored, err := uc.repo.History().Put(ctx, badge)
	if err != nil {
		return nil, r.fail(goerr.Wrap(err, "failed to store badge"))
	}
	r.enter(model.StageStored)

	result := &model.BadgeResult{Badge: stored}
	if uc.icons != nil {
		result.Icon = uc.icons.Suggest(iconQuery(stored), uc.iconTopK)
		r.enter(model.StageIconSuggested)
	}

	r.enter(model.StageCompleted)
	result.Stages = r.stages
	return result, nil
}

// complete generates the whole answer in one call
func (uc *BadgeUseCase) complete(ctx context.Context, prompt string, attempt int) (string, error) {
	return uc.completeWith(ctx, prompt, attempt, uc.options)
}

func (uc *BadgeUseCase) completeWith(ctx context.Context, prompt string, attempt int, opts model.GenerationOptions) (string, error) {
	release, err := uc.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	completion, err := uc.generator.Generate(ctx, prompt, opts)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate badge text", goerr.V(AttemptKey, attempt))
	}
	return completion.Text, nil
}

// acquire reserves an inference slot. The returned func gives it back.
func (uc *BadgeUseCase) acquire(ctx context.Context) (func(), error) {
	if uc.generator == nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "no inference backend configured")
	}
	if uc.sem == nil {
		return func() {}, nil
	}

	if err := uc.sem.Acquire(ctx, 1); err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "gave up waiting for an inference slot",
			goerr.V("cause", err.Error()))
	}
	return func() { uc.sem.Release(1) }, nil
}

func iconQuery(b *model.Badge) string {
	return strings.Join([]string{b.Name, b.Description, b.Criteria.Narrative}, " ")
}
