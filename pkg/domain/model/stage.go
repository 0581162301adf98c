package model

// Stage is a step of the badge generation pipeline
type Stage string

const (
	StageReceived           Stage = "received"
	StageParsed             Stage = "parsed"
	StageParametersResolved Stage = "parameters_resolved"
	StagePromptBuilt        Stage = "prompt_built"
	StageGenerating         Stage = "generating"
	StageExtracting         Stage = "extracting"
	StageStored             Stage = "stored"
	StageIconSuggested      Stage = "icon_suggested"
	StageCompleted          Stage = "completed"
	StageFailed             Stage = "failed"
)

// BadgeResult is what a successful generation hands back to callers
type BadgeResult struct {
	Badge  *Badge          `json:"badge"`
	Icon   *IconSuggestion `json:"icon,omitempty"`
	Stages []Stage         `json:"stages,omitempty"`
}
