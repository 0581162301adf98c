package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/service/icon"
	"github.com/urfave/cli/v3"
)

// Catalog holds icon catalog and matcher configuration
type Catalog struct {
	path            string
	maxDF           float64
	minScore        float64
	boost           bool
	boostMultiplier float64
	boostPerMatch   float64
	topK            int
}

// Flags returns CLI flags for the icon matcher
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "icon-catalog",
			Usage:       "Icon catalog file (.json, .yaml or .toml). The built-in catalog is used when empty",
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_CATALOG"),
			Destination: &c.path,
		},
		&cli.FloatFlag{
			Name:        "icon-max-df",
			Usage:       "Ignore terms present in more than this fraction of icons",
			Value:       icon.DefaultMaxDF,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_MAX_DF"),
			Destination: &c.maxDF,
		},
		&cli.FloatFlag{
			Name:        "icon-min-score",
			Usage:       "Similarity below which keyword matching is used instead",
			Value:       icon.DefaultMinScore,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_MIN_SCORE"),
			Destination: &c.minScore,
		},
		&cli.BoolFlag{
			Name:        "icon-boost",
			Usage:       "Boost icons whose keywords appear in the text",
			Value:       true,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_BOOST"),
			Destination: &c.boost,
		},
		&cli.FloatFlag{
			Name:        "icon-boost-multiplier",
			Usage:       "Score multiplier for boosted icons",
			Value:       icon.DefaultBoostMultiplier,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_BOOST_MULTIPLIER"),
			Destination: &c.boostMultiplier,
		},
		&cli.FloatFlag{
			Name:        "icon-boost-per-match",
			Usage:       "Score added per matching keyword",
			Value:       icon.DefaultBoostPerMatch,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_BOOST_PER_MATCH"),
			Destination: &c.boostPerMatch,
		},
		&cli.IntFlag{
			Name:        "icon-top-k",
			Usage:       "Number of icons in a suggestion, including the chosen one",
			Value:       icon.DefaultTopK,
			Category:    "Icon",
			Sources:     cli.EnvVars("BADGEFORGE_ICON_TOP_K"),
			Destination: &c.topK,
		},
	}
}

// LogAttrs returns log attributes for the icon configuration
func (c *Catalog) LogAttrs() []slog.Attr {
	path := c.path
	if path == "" {
		path = "(built-in)"
	}
	return []slog.Attr{
		slog.String("catalog", path),
		slog.Float64("max_df", c.maxDF),
		slog.Float64("min_score", c.minScore),
		slog.Bool("boost", c.boost),
		slog.Int("top_k", c.topK),
	}
}

// TopK returns the configured suggestion size
func (c *Catalog) TopK() int {
	return c.topK
}

// Configure loads the catalog and builds the matcher
func (c *Catalog) Configure() (*icon.Matcher, error) {
	if c.maxDF <= 0 || c.maxDF > 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "icon max DF must be in (0, 1]",
			goerr.V(FieldKey, "icon-max-df"), goerr.V("value", c.maxDF))
	}
	if c.topK < 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "icon top-k must be positive",
			goerr.V(FieldKey, "icon-top-k"), goerr.V("value", c.topK))
	}

	catalog, err := icon.LoadCatalog(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load icon catalog", goerr.V(ConfigPathKey, c.path))
	}

	return icon.NewMatcher(catalog,
		icon.WithMaxDF(c.maxDF),
		icon.WithMinScore(c.minScore),
		icon.WithBoost(icon.Boost{
			Enabled:    c.boost,
			Multiplier: c.boostMultiplier,
			PerMatch:   c.boostPerMatch,
		}),
	), nil
}
