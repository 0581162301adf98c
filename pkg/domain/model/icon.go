package model

// Icon is an entry of the curated icon catalog
type Icon struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name" toml:"display_name"`
	Category    string   `json:"category" yaml:"category" toml:"category"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Keywords    []string `json:"keywords" yaml:"keywords" toml:"keywords"`
	UseCases    []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty" toml:"use_cases,omitempty"`
}

// MatchMethod tells which strategy produced an icon suggestion
type MatchMethod string

const (
	MatchMethodSimilarity MatchMethod = "similarity"
	MatchMethodKeyword    MatchMethod = "keyword"
	MatchMethodDefault    MatchMethod = "default"
)

// IconScore is a ranked catalog entry
type IconScore struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Category    string  `json:"category,omitempty"`
	Score       float64 `json:"score"`
}

// IconSuggestion is the best icon for a text plus the runners-up
type IconSuggestion struct {
	IconScore
	Method       MatchMethod `json:"method"`
	Alternatives []IconScore `json:"alternatives,omitempty"`
}
