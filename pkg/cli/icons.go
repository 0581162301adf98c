package cli

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/cli/config"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdIcons() *cli.Command {
	var topK int
	var asJSON bool
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of icons to show, overriding --icon-top-k",
			Destination: &topK,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the suggestion as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:      "icons",
		Usage:     "Rank catalog icons for a text",
		ArgsUsage: "<text>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")

			matcher, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure icon matcher")
			}
			logging.Default().Debug("Icon matcher ready", "catalog_size", matcher.Catalog().Len())

			uc := usecase.NewIconUseCase(matcher, catalogCfg.TopK())
			suggestion, err := uc.Suggest(text, topK)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(os.Stdout, suggestion)
			}
			printSuggestion(os.Stdout, suggestion)
			return nil
		},
	}
}
