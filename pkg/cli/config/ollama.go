package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/badgeforge/pkg/service/ollama"
	"github.com/urfave/cli/v3"
)

// Ollama holds configuration for the local Ollama inference server
type Ollama struct {
	baseURL string
	model   string
	timeout time.Duration
}

// Flags returns CLI flags for Ollama configuration
func (o *Ollama) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ollama-url",
			Usage:       "Base URL of the Ollama server",
			Value:       ollama.DefaultBaseURL,
			Category:    "Ollama",
			Sources:     cli.EnvVars("BADGEFORGE_OLLAMA_URL"),
			Destination: &o.baseURL,
		},
		&cli.StringFlag{
			Name:        "ollama-model",
			Usage:       "Model name used for badge generation",
			Value:       ollama.DefaultModel,
			Category:    "Ollama",
			Sources:     cli.EnvVars("BADGEFORGE_OLLAMA_MODEL"),
			Destination: &o.model,
		},
		&cli.DurationFlag{
			Name:        "ollama-timeout",
			Usage:       "Timeout of a single generation request",
			Value:       ollama.DefaultTimeout,
			Category:    "Ollama",
			Sources:     cli.EnvVars("BADGEFORGE_OLLAMA_TIMEOUT"),
			Destination: &o.timeout,
		},
	}
}

// LogAttrs returns log attributes for the Ollama configuration
func (o *Ollama) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("url", o.baseURL),
		slog.String("model", o.model),
		slog.Duration("timeout", o.timeout),
	}
}

// Configure creates an Ollama client from the configured flags
func (o *Ollama) Configure() *ollama.Client {
	return ollama.New(o.baseURL, o.model, ollama.WithTimeout(o.timeout))
}
