package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
)

// DefaultFieldMaxTokens caps the answer for a single field
const DefaultFieldMaxTokens = 200

// RegenerateField rewrites one text field of a stored badge and stores the result
// as a new record. The other fields, parameters and course input are carried over.
func (uc *BadgeUseCase) RegenerateField(ctx context.Context, req *model.RegenerateFieldRequest) (*model.BadgeResult, error) {
	r := &badgeRun{logger: logging.From(ctx)}
	r.enter(model.StageReceived)

	field, err := types.ParseBadgeField(strings.ToLower(strings.TrimSpace(req.Field)))
	if err != nil {
		return nil, r.fail(goerr.Wrap(model.ErrInvalidParameter, "field cannot be regenerated",
			goerr.V("field", req.Field),
			goerr.V("allowed", types.AllBadgeFields()),
		))
	}

	base, err := uc.regenerationBase(ctx, req.BadgeID)
	if err != nil {
		return nil, r.fail(err)
	}

	prompt, err := BuildFieldPrompt(base, field, req.CustomInstructions)
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(model.StagePromptBuilt)

	opts := uc.options
	if opts.MaxTokens <= 0 || opts.MaxTokens > DefaultFieldMaxTokens {
		opts.MaxTokens = DefaultFieldMaxTokens
	}

	var (
		value    string
		raw      string
		attempts int
	)
	for attempts < 1+uc.maxRetries {
		attempts++

		r.enter(model.StageGenerating)
		if raw, err = uc.completeWith(ctx, prompt, attempts, opts); err != nil {
			return nil, r.fail(err)
		}

		r.enter(model.StageExtracting)
		if value = fieldText(raw); value != "" {
			break
		}
		r.logger.Debug("generated field text is empty", "attempt", attempts, "field", field)
	}
	if value == "" {
		return nil, r.fail(goerr.Wrap(model.ErrGenerationFormat, "no usable text for field",
			goerr.V("field", field),
			goerr.V(model.AttemptsKey, attempts),
			goerr.V(model.RawOutputKey, raw),
		))
	}

	badge := mergeField(base, field, value)
	badge.RawOutput = raw
	badge.Attempts = attempts
	badge.Metadata = map[string]any{
		"regenerated_from":  base.ID.String(),
		"regenerated_field": field.String(),
	}
	if req.CustomInstructions != "" {
		badge.Metadata["field_instructions"] = req.CustomInstructions
	}

	result, err := uc.store(ctx, r, badge)
	if err != nil {
		return nil, err
	}

	r.logger.Info("badge field regenerated",
		"badge_id", result.Badge.ID,
		"regenerated_from", base.ID,
		"field", field,
		"attempts", attempts,
	)
	return result, nil
}

// mergeField returns a copy of base with field replaced by value
func mergeField(base *model.Badge, field types.BadgeField, value string) *model.Badge {
	badge := base.Copy()
	switch field {
	case types.BadgeFieldTitle:
		badge.Name = value
	case types.BadgeFieldDescription:
		badge.Description = value
	case types.BadgeFieldCriteria:
		badge.Criteria = model.Criteria{Narrative: value}
	}
	return badge
}

// fieldText cleans a raw single-field answer: surrounding whitespace, a code fence
// and one pair of wrapping quotes are removed.
func fieldText(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSpace(s[3 : len(s)-3])
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
