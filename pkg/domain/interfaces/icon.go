package interfaces

import "github.com/secmon-lab/badgeforge/pkg/domain/model"

// IconSuggester picks catalog icons for free text. It never fails; unknown text yields a default icon.
type IconSuggester interface {
	Suggest(text string, topK int) *model.IconSuggestion
}
