package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// DefaultGenerationOptions returns the sampling parameters used when nothing else is configured
func DefaultGenerationOptions() model.GenerationOptions {
	return model.GenerationOptions{
		Temperature:   0.15,
		TopP:          0.8,
		TopK:          30,
		MaxTokens:     1024,
		RepeatPenalty: 1.05,
		Stop:          []string{"<|end|>", "}\n\n"},
		ContextWindow: 4096,
	}
}

// fileConfig is the layout of the --config TOML file
type fileConfig struct {
	Generation model.GenerationOptions `toml:"generation"`
}

// Generation holds sampling parameters and pipeline limits.
// Values are layered: built-in defaults, then the TOML file, then flags set explicitly.
type Generation struct {
	configPath    string
	opts          model.GenerationOptions
	maxConcurrent int
	maxRetries    int
}

// Flags returns CLI flags for generation configuration
func (g *Generation) Flags() []cli.Flag {
	def := DefaultGenerationOptions()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to a TOML file with a [generation] table",
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_CONFIG"),
			Destination: &g.configPath,
		},
		&cli.FloatFlag{
			Name:        "temperature",
			Usage:       "Sampling temperature",
			Value:       def.Temperature,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_TEMPERATURE"),
			Destination: &g.opts.Temperature,
		},
		&cli.FloatFlag{
			Name:        "top-p",
			Usage:       "Nucleus sampling threshold",
			Value:       def.TopP,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_TOP_P"),
			Destination: &g.opts.TopP,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of candidate tokens considered at each step",
			Value:       def.TopK,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_TOP_K"),
			Destination: &g.opts.TopK,
		},
		&cli.IntFlag{
			Name:        "max-tokens",
			Usage:       "Maximum number of generated tokens",
			Value:       def.MaxTokens,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_MAX_TOKENS"),
			Destination: &g.opts.MaxTokens,
		},
		&cli.FloatFlag{
			Name:        "repeat-penalty",
			Usage:       "Penalty applied to repeated tokens",
			Value:       def.RepeatPenalty,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_REPEAT_PENALTY"),
			Destination: &g.opts.RepeatPenalty,
		},
		&cli.IntFlag{
			Name:        "num-ctx",
			Usage:       "Context window size",
			Value:       def.ContextWindow,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_NUM_CTX"),
			Destination: &g.opts.ContextWindow,
		},
		&cli.StringSliceFlag{
			Name:        "stop",
			Usage:       "Stop sequence (repeatable)",
			Value:       def.Stop,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_STOP"),
			Destination: &g.opts.Stop,
		},
		&cli.IntFlag{
			Name:        "max-concurrent-generations",
			Usage:       "Maximum number of inference calls in flight",
			Value:       2,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_MAX_CONCURRENT_GENERATIONS"),
			Destination: &g.maxConcurrent,
		},
		&cli.IntFlag{
			Name:        "max-retries",
			Usage:       "Additional attempts when the output cannot be parsed",
			Value:       2,
			Category:    "Generation",
			Sources:     cli.EnvVars("BADGEFORGE_MAX_RETRIES"),
			Destination: &g.maxRetries,
		},
	}
}

// LogAttrs returns log attributes for the generation configuration
func (g *Generation) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("config", g.configPath),
		slog.Float64("temperature", g.opts.Temperature),
		slog.Float64("top_p", g.opts.TopP),
		slog.Int("top_k", g.opts.TopK),
		slog.Int("max_tokens", g.opts.MaxTokens),
		slog.Float64("repeat_penalty", g.opts.RepeatPenalty),
		slog.Int("num_ctx", g.opts.ContextWindow),
		slog.Int("max_concurrent", g.maxConcurrent),
		slog.Int("max_retries", g.maxRetries),
	}
}

// MaxConcurrent returns the inference concurrency cap
func (g *Generation) MaxConcurrent() int {
	return g.maxConcurrent
}

// MaxRetries returns the number of retries after an unparsable output
func (g *Generation) MaxRetries() int {
	return g.maxRetries
}

// flagFields maps flag names to the option they override
var flagFields = map[string]func(dst *model.GenerationOptions, src model.GenerationOptions){
	"temperature":    func(d *model.GenerationOptions, s model.GenerationOptions) { d.Temperature = s.Temperature },
	"top-p":          func(d *model.GenerationOptions, s model.GenerationOptions) { d.TopP = s.TopP },
	"top-k":          func(d *model.GenerationOptions, s model.GenerationOptions) { d.TopK = s.TopK },
	"max-tokens":     func(d *model.GenerationOptions, s model.GenerationOptions) { d.MaxTokens = s.MaxTokens },
	"repeat-penalty": func(d *model.GenerationOptions, s model.GenerationOptions) { d.RepeatPenalty = s.RepeatPenalty },
	"num-ctx":        func(d *model.GenerationOptions, s model.GenerationOptions) { d.ContextWindow = s.ContextWindow },
	"stop":           func(d *model.GenerationOptions, s model.GenerationOptions) { d.Stop = append([]string(nil), s.Stop...) },
}

// Configure resolves the sampling options. isSet reports whether a flag was given explicitly.
func (g *Generation) Configure(isSet func(name string) bool) (model.GenerationOptions, error) {
	opts := DefaultGenerationOptions()

	if g.configPath != "" {
		loaded, err := LoadGenerationOptions(g.configPath, opts)
		if err != nil {
			return model.GenerationOptions{}, err
		}
		opts = loaded
	}

	for name, apply := range flagFields {
		if isSet(name) {
			apply(&opts, g.opts)
		}
	}

	if err := ValidateGenerationOptions(opts); err != nil {
		return model.GenerationOptions{}, err
	}
	if g.maxConcurrent < 1 {
		return model.GenerationOptions{}, goerr.Wrap(ErrInvalidConfig, "max concurrent generations must be positive",
			goerr.V(FieldKey, "max-concurrent-generations"), goerr.V("value", g.maxConcurrent))
	}
	if g.maxRetries < 0 {
		return model.GenerationOptions{}, goerr.Wrap(ErrInvalidConfig, "max retries must not be negative",
			goerr.V(FieldKey, "max-retries"), goerr.V("value", g.maxRetries))
	}

	return opts, nil
}

// LoadGenerationOptions reads the [generation] table of a TOML file on top of base.
// Keys missing from the file keep their value from base.
func LoadGenerationOptions(path string, base model.GenerationOptions) (model.GenerationOptions, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return base, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	cfg := fileConfig{Generation: base}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return base, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	return cfg.Generation, nil
}

// ValidateGenerationOptions checks that sampling parameters are within the ranges the backends accept
func ValidateGenerationOptions(opts model.GenerationOptions) error {
	switch {
	case opts.Temperature < 0 || opts.Temperature > 2:
		return goerr.Wrap(ErrInvalidConfig, "temperature must be between 0 and 2",
			goerr.V(FieldKey, "temperature"), goerr.V("value", opts.Temperature))
	case opts.TopP <= 0 || opts.TopP > 1:
		return goerr.Wrap(ErrInvalidConfig, "top_p must be in (0, 1]",
			goerr.V(FieldKey, "top_p"), goerr.V("value", opts.TopP))
	case opts.TopK < 0:
		return goerr.Wrap(ErrInvalidConfig, "top_k must not be negative",
			goerr.V(FieldKey, "top_k"), goerr.V("value", opts.TopK))
	case opts.MaxTokens < 1:
		return goerr.Wrap(ErrInvalidConfig, "num_predict must be positive",
			goerr.V(FieldKey, "num_predict"), goerr.V("value", opts.MaxTokens))
	case opts.RepeatPenalty <= 0:
		return goerr.Wrap(ErrInvalidConfig, "repeat_penalty must be positive",
			goerr.V(FieldKey, "repeat_penalty"), goerr.V("value", opts.RepeatPenalty))
	case opts.ContextWindow < opts.MaxTokens:
		return goerr.Wrap(ErrInvalidConfig, "num_ctx must not be smaller than num_predict",
			goerr.V(FieldKey, "num_ctx"), goerr.V("value", opts.ContextWindow))
	}
	return nil
}
