package usecase

import (
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
)

type option interface {
	~string
	Guidance() string
}

func styleOptions[T option](values []T) []model.StyleOption {
	opts := make([]model.StyleOption, 0, len(values))
	for _, v := range values {
		opts = append(opts, model.StyleOption{Value: string(v), Guidance: v.Guidance()})
	}
	return opts
}

// Styles lists the allowed values of each parameter dimension with their prompt guidance
func Styles() model.StyleCatalog {
	return model.StyleCatalog{
		types.DimensionStyle:     styleOptions(types.AllBadgeStyles()),
		types.DimensionTone:      styleOptions(types.AllBadgeTones()),
		types.DimensionCriterion: styleOptions(types.AllCriterionStyles()),
		types.DimensionLevel:     styleOptions(types.AllBadgeLevels()),
	}
}
