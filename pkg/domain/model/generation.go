package model

import "time"

// GenerationRequest is the raw, unvalidated request for a badge.
// Empty parameter fields are resolved randomly.
type GenerationRequest struct {
	CourseInput        string `json:"course_input"`
	BadgeStyle         string `json:"badge_style,omitempty"`
	BadgeTone          string `json:"badge_tone,omitempty"`
	CriterionStyle     string `json:"criterion_style,omitempty"`
	BadgeLevel         string `json:"badge_level,omitempty"`
	Institution        string `json:"institution,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

// RegenerateRequest asks to rerun generation for a stored badge with some dimensions re-rolled.
// An empty BadgeID selects the most recent badge.
type RegenerateRequest struct {
	BadgeID    BadgeID  `json:"badge_id,omitempty"`
	Dimensions []string `json:"regenerate_parameters"`
}

// RegenerateFieldRequest asks to rewrite a single text field of a stored badge.
// The other fields are carried over unchanged. An empty BadgeID selects the most recent badge.
type RegenerateFieldRequest struct {
	BadgeID            BadgeID `json:"badge_id,omitempty"`
	Field              string  `json:"field_to_change"`
	CustomInstructions string  `json:"custom_instructions,omitempty"`
}

// GenerationOptions are the sampling parameters passed to the inference service
type GenerationOptions struct {
	Temperature   float64  `json:"temperature" toml:"temperature"`
	TopP          float64  `json:"top_p" toml:"top_p"`
	TopK          int      `json:"top_k" toml:"top_k"`
	MaxTokens     int      `json:"num_predict" toml:"num_predict"`
	RepeatPenalty float64  `json:"repeat_penalty" toml:"repeat_penalty"`
	Stop          []string `json:"stop,omitempty" toml:"stop"`
	ContextWindow int      `json:"num_ctx" toml:"num_ctx"`
}

// Completion is the outcome of a single-shot generation
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// Fragment is one step of a streamed generation. Text holds everything received so far.
type Fragment struct {
	Delta string
	Text  string
	Done  bool
}
