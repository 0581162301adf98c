package usecase

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

type IconUseCase struct {
	icons interfaces.IconSuggester
	topK  int
}

// NewIconUseCase creates an IconUseCase. Non-positive topK uses DefaultIconTopK.
func NewIconUseCase(icons interfaces.IconSuggester, topK int) *IconUseCase {
	if topK <= 0 {
		topK = DefaultIconTopK
	}
	return &IconUseCase{
		icons: icons,
		topK:  topK,
	}
}

// Suggest ranks catalog icons for text. topK <= 0 uses the configured default.
// Empty text is valid and yields the default icon.
func (uc *IconUseCase) Suggest(text string, topK int) (*model.IconSuggestion, error) {
	if uc.icons == nil {
		return nil, goerr.New("icon catalog is not configured")
	}
	if topK <= 0 {
		topK = uc.topK
	}
	return uc.icons.Suggest(strings.TrimSpace(text), topK), nil
}
