package usecase

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
)

//go:embed prompt/badge.md
var badgePromptTmpl string

var badgePrompt = template.Must(template.New("badge").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(badgePromptTmpl))

//go:embed prompt/field.md
var fieldPromptTmpl string

var fieldPrompt = template.Must(template.New("field").Parse(fieldPromptTmpl))

// PromptMode selects the trailing directive of a badge prompt
type PromptMode int

const (
	// PromptModeComplete asks for the whole answer at once
	PromptModeComplete PromptMode = iota
	// PromptModeStream asks for the answer to be emitted as it is produced
	PromptModeStream
)

// PromptInput is everything a badge prompt is rendered from
type PromptInput struct {
	Segments           []string
	Parameters         model.Parameters
	Institution        string
	CustomInstructions string
	Mode               PromptMode
	// Strict adds the JSON-only directive used when a previous answer was unusable
	Strict bool
}

type badgePromptData struct {
	Segments           []string
	Style              string
	StyleGuidance      string
	Tone               string
	ToneGuidance       string
	Level              string
	LevelGuidance      string
	Criterion          string
	CriterionGuidance  string
	Institution        string
	CustomInstructions string
	Stream             bool
	Strict             bool
}

// BuildPrompt renders the badge prompt. It has no side effects.
func BuildPrompt(in PromptInput) (string, error) {
	if len(in.Segments) == 0 {
		return "", goerr.Wrap(model.ErrInvalidInput, "no course segments to build prompt from")
	}

	p := in.Parameters
	data := badgePromptData{
		Segments:           in.Segments,
		Style:              p.Style.String(),
		StyleGuidance:      p.Style.Guidance(),
		Tone:               p.Tone.String(),
		ToneGuidance:       p.Tone.Guidance(),
		Level:              p.Level.String(),
		LevelGuidance:      p.Level.Guidance(),
		Criterion:          p.Criterion.String(),
		CriterionGuidance:  p.Criterion.Guidance(),
		Institution:        in.Institution,
		CustomInstructions: in.CustomInstructions,
		Stream:             in.Mode == PromptModeStream,
		Strict:             in.Strict,
	}

	var buf bytes.Buffer
	if err := badgePrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render badge prompt")
	}
	return buf.String(), nil
}

type fieldPromptData struct {
	Field              string
	Task               string
	Name               string
	Description        string
	Criteria           string
	CourseInput        string
	CustomInstructions string
}

// BuildFieldPrompt renders the prompt that rewrites field of badge and nothing else
func BuildFieldPrompt(badge *model.Badge, field types.BadgeField, customInstructions string) (string, error) {
	if !field.IsValid() {
		return "", goerr.Wrap(model.ErrInvalidParameter, "field cannot be regenerated",
			goerr.V("field", field))
	}

	data := fieldPromptData{
		Field:              field.String(),
		Task:               field.Task(),
		Name:               badge.Name,
		Description:        badge.Description,
		Criteria:           badge.Criteria.Narrative,
		CourseInput:        badge.CourseInput,
		CustomInstructions: customInstructions,
	}

	var buf bytes.Buffer
	if err := fieldPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render field prompt")
	}
	return buf.String(), nil
}
