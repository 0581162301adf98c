package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

// Supported inference backends
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Inference is a generation backend that can also be probed for health
type Inference interface {
	interfaces.Generator
	interfaces.HealthChecker
}

// LLM selects the inference backend. Ollama serves the local model; Gemini
// runs through gollem.
type LLM struct {
	backend        string
	ollama         Ollama
	geminiProject  string
	geminiLocation string
	geminiModel    string
}

// Flags returns CLI flags for backend selection and all backends
func (l *LLM) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-backend",
			Usage:       "Inference backend [ollama|gemini]",
			Value:       BackendOllama,
			Category:    "LLM",
			Sources:     cli.EnvVars("BADGEFORGE_LLM_BACKEND"),
			Destination: &l.backend,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID, required by the gemini backend",
			Category:    "Gemini",
			Sources:     cli.EnvVars("BADGEFORGE_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "Gemini",
			Sources:     cli.EnvVars("BADGEFORGE_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       gemini.DefaultModel,
			Category:    "Gemini",
			Sources:     cli.EnvVars("BADGEFORGE_GEMINI_MODEL"),
			Destination: &l.geminiModel,
		},
	}
	return append(flags, l.ollama.Flags()...)
}

// LogAttrs returns log attributes for the selected backend
func (l *LLM) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("backend", l.backend)}
	if l.backend == BackendGemini {
		return append(attrs,
			slog.String("project_id", l.geminiProject),
			slog.String("location", l.geminiLocation),
			slog.String("model", l.geminiModel),
		)
	}
	return append(attrs, l.ollama.LogAttrs()...)
}

// Configure creates the client of the selected backend
func (l *LLM) Configure(ctx context.Context) (Inference, error) {
	switch l.backend {
	case BackendOllama, "":
		return l.ollama.Configure(), nil
	case BackendGemini:
		return l.configureGemini(ctx)
	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown inference backend", goerr.V(BackendKey, l.backend))
	}
}

func (l *LLM) configureGemini(ctx context.Context) (Inference, error) {
	if l.geminiProject == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "gemini backend requires --gemini-project",
			goerr.V(BackendKey, l.backend))
	}

	var opts []gemini.Option
	if l.geminiModel != "" {
		opts = append(opts, gemini.WithModel(l.geminiModel))
	}

	client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", l.geminiProject), goerr.V("location", l.geminiLocation))
	}

	modelName := l.geminiModel
	if modelName == "" {
		modelName = gemini.DefaultModel
	}
	return llm.New(client, llm.WithBackend(BackendGemini, modelName)), nil
}
