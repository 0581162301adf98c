package config

import (
	"time"

	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// NewOllamaForTest creates an Ollama config for testing purposes
func NewOllamaForTest(baseURL, modelName string, timeout time.Duration) *Ollama {
	return &Ollama{
		baseURL: baseURL,
		model:   modelName,
		timeout: timeout,
	}
}

// NewLLMForTest creates a backend selection for testing purposes
func NewLLMForTest(backend string, ollamaCfg *Ollama, geminiProject string) *LLM {
	return &LLM{
		backend:        backend,
		ollama:         *ollamaCfg,
		geminiProject:  geminiProject,
		geminiLocation: "us-central1",
	}
}

// NewCatalogForTest creates an icon catalog config for testing purposes
func NewCatalogForTest(path string, maxDF, minScore float64, boost bool, topK int) *Catalog {
	return &Catalog{
		path:            path,
		maxDF:           maxDF,
		minScore:        minScore,
		boost:           boost,
		boostMultiplier: 1.2,
		boostPerMatch:   0.05,
		topK:            topK,
	}
}

// NewGenerationForTest creates a generation config as if flags had been parsed into it
func NewGenerationForTest(configPath string, opts model.GenerationOptions, maxConcurrent, maxRetries int) *Generation {
	return &Generation{
		configPath:    configPath,
		opts:          opts,
		maxConcurrent: maxConcurrent,
		maxRetries:    maxRetries,
	}
}

// NewHistoryForTest creates a history config for testing purposes
func NewHistoryForTest(capacity int) *History {
	return &History{capacity: capacity}
}

// NewLoggerForTest creates a logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
