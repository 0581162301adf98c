package usecase

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
)

// RandSource draws the random values used to fill in unspecified parameters.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// ParameterResolver validates requested parameters and picks the missing ones at random
type ParameterResolver struct {
	rnd RandSource
}

// NewParameterResolver creates a resolver. A nil source uses the global math/rand/v2 generator.
func NewParameterResolver(rnd RandSource) *ParameterResolver {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &ParameterResolver{rnd: rnd}
}

// Resolve returns the full parameter set for req. Every dimension is handled independently.
func (r *ParameterResolver) Resolve(req *model.GenerationRequest) (model.Parameters, error) {
	var (
		params model.Parameters
		err    error
	)

	if params.Style, err = pick(r.rnd, types.DimensionStyle, req.BadgeStyle, types.AllBadgeStyles()); err != nil {
		return model.Parameters{}, err
	}
	if params.Tone, err = pick(r.rnd, types.DimensionTone, req.BadgeTone, types.AllBadgeTones()); err != nil {
		return model.Parameters{}, err
	}
	if params.Criterion, err = pick(r.rnd, types.DimensionCriterion, req.CriterionStyle, types.AllCriterionStyles()); err != nil {
		return model.Parameters{}, err
	}
	if params.Level, err = pick(r.rnd, types.DimensionLevel, req.BadgeLevel, types.AllBadgeLevels()); err != nil {
		return model.Parameters{}, err
	}

	return params, nil
}

// Reroll draws new values for the named dimensions and keeps the others
func (r *ParameterResolver) Reroll(params model.Parameters, dims []string) (model.Parameters, error) {
	for _, name := range dims {
		dim, err := types.ParseDimension(name)
		if err != nil {
			return model.Parameters{}, goerr.Wrap(model.ErrInvalidParameter, "unknown parameter dimension",
				goerr.V(DimensionKey, name))
		}

		switch dim {
		case types.DimensionStyle:
			params.Style = draw(r.rnd, types.AllBadgeStyles())
		case types.DimensionTone:
			params.Tone = draw(r.rnd, types.AllBadgeTones())
		case types.DimensionCriterion:
			params.Criterion = draw(r.rnd, types.AllCriterionStyles())
		case types.DimensionLevel:
			params.Level = draw(r.rnd, types.AllBadgeLevels())
		}
	}
	return params, nil
}

func pick[T ~string](rnd RandSource, dim types.Dimension, value string, domain []T) (T, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return draw(rnd, domain), nil
	}

	v := T(value)
	if !slices.Contains(domain, v) {
		return "", goerr.Wrap(model.ErrInvalidParameter, "value is not allowed for parameter",
			goerr.V(DimensionKey, dim),
			goerr.V("value", value),
			goerr.V("allowed", domain),
		)
	}
	return v, nil
}

func draw[T any](rnd RandSource, domain []T) T {
	return domain[rnd.IntN(len(domain))]
}
