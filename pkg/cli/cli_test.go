package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/repository/memory"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
)

const cliOutput = `{"badge_name": "Data Storyteller", "badge_description": "Recognizes turning datasets into clear narratives.", "criteria": {"narrative": "Learners present an analysis to peers."}}`

type scriptedGenerator struct {
	text string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, opts model.GenerationOptions) (*model.Completion, error) {
	return &model.Completion{Text: g.text}, nil
}

func (g *scriptedGenerator) Stream(ctx context.Context, prompt string, opts model.GenerationOptions) iter.Seq2[*model.Fragment, error] {
	return func(yield func(*model.Fragment, error) bool) {
		half := len(g.text) / 2
		if !yield(&model.Fragment{Delta: g.text[:half], Text: g.text[:half]}, nil) {
			return
		}
		if !yield(&model.Fragment{Delta: g.text[half:], Text: g.text}, nil) {
			return
		}
		yield(&model.Fragment{Text: g.text, Done: true}, nil)
	}
}

func newTestPipeline(text string) *pipeline {
	uc := usecase.New(memory.New(), usecase.WithGenerator(&scriptedGenerator{text: text}))
	return &pipeline{uc: uc}
}

func TestGenerateStreaming(t *testing.T) {
	t.Run("echoes tokens and returns the result", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := generateStreaming(t.Context(), newTestPipeline(cliOutput),
			&model.GenerationRequest{CourseInput: "Data Analysis"}, &buf)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Badge.Name).Equal("Data Storyteller")
		gt.S(t, buf.String()).Contains("[attempt 1]")
		gt.S(t, buf.String()).Contains(`"badge_name": "Data Storyteller"`)
	})

	t.Run("returns the error event as error", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := generateStreaming(t.Context(), newTestPipeline(cliOutput),
			&model.GenerationRequest{CourseInput: "   "}, &buf)
		gt.Value(t, err).NotNil()
	})
}

func TestPrintBadge(t *testing.T) {
	result, err := newTestPipeline(cliOutput).uc.Badge.Generate(t.Context(), &model.GenerationRequest{
		CourseInput: "Data Analysis",
		BadgeStyle:  "Academic",
		BadgeTone:   "Concise",
	})
	gt.NoError(t, err).Required()

	var buf bytes.Buffer
	printBadge(&buf, result)
	out := buf.String()
	gt.S(t, out).Contains("Data Storyteller")
	gt.S(t, out).Contains("Learners present an analysis to peers.")
	gt.S(t, out).Contains("style=Academic tone=Concise")

	buf.Reset()
	gt.NoError(t, printJSON(&buf, result)).Required()
	var decoded model.BadgeResult
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &decoded)).Required()
	gt.Value(t, decoded.Badge.ID).Equal(result.Badge.ID)
}

func TestPrintSuggestion(t *testing.T) {
	var buf bytes.Buffer
	printSuggestion(&buf, &model.IconSuggestion{
		IconScore: model.IconScore{Name: "shield.png", Score: 0.42},
		Method:    model.MatchMethodSimilarity,
		Alternatives: []model.IconScore{
			{Name: "lock.png", Score: 0.3},
		},
	})
	gt.S(t, buf.String()).Contains("shield.png 0.420 (similarity)")
	gt.S(t, buf.String()).Contains("lock.png 0.300")
}

func TestRun(t *testing.T) {
	t.Run("rejects invalid log level", func(t *testing.T) {
		err := Run(t.Context(), []string{"badgeforge", "--log-level", "verbose", "icons", "python"}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("generate without course input fails before inference", func(t *testing.T) {
		err := Run(t.Context(), []string{"badgeforge", "generate", "--ollama-url", "http://127.0.0.1:1"}, "test")
		gt.Error(t, err).Is(model.ErrInvalidInput)
	})

	t.Run("unknown backend", func(t *testing.T) {
		err := Run(t.Context(), []string{"badgeforge", "generate", "--llm-backend", "llamacpp", "Python"}, "test")
		gt.Value(t, err).NotNil()
	})
}
