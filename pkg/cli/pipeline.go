package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/cli/config"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// pipelineConfig gathers the configuration shared by commands that generate badges
type pipelineConfig struct {
	llm        config.LLM
	generation config.Generation
	catalog    config.Catalog
	history    config.History
}

func (p *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, p.llm.Flags()...)
	flags = append(flags, p.generation.Flags()...)
	flags = append(flags, p.catalog.Flags()...)
	flags = append(flags, p.history.Flags()...)
	return flags
}

// pipeline is the assembled generation stack
type pipeline struct {
	uc        *usecase.UseCases
	inference config.Inference
}

func (p *pipelineConfig) Configure(ctx context.Context, c *cli.Command) (*pipeline, error) {
	opts, err := p.generation.Configure(c.IsSet)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure generation")
	}

	inference, err := p.llm.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure inference backend")
	}

	matcher, err := p.catalog.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure icon matcher")
	}

	repo, err := p.history.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure history")
	}

	logging.Default().Info("Pipeline configured",
		slog.GroupAttrs("llm", p.llm.LogAttrs()...),
		slog.GroupAttrs("generation", p.generation.LogAttrs()...),
		slog.GroupAttrs("icon", p.catalog.LogAttrs()...),
		slog.GroupAttrs("history", p.history.LogAttrs()...),
	)

	uc := usecase.New(repo,
		usecase.WithGenerator(inference),
		usecase.WithIconSuggester(matcher),
		usecase.WithGenerationOptions(opts),
		usecase.WithMaxConcurrency(p.generation.MaxConcurrent()),
		usecase.WithMaxRetries(p.generation.MaxRetries()),
		usecase.WithIconTopK(p.catalog.TopK()),
	)

	return &pipeline{uc: uc, inference: inference}, nil
}
