package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdGenerate() *cli.Command {
	var req model.GenerationRequest
	var asJSON bool
	var stream bool
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "style",
			Usage:       "Badge style [Professional|Academic|Industry|Technical|Creative]",
			Category:    "Badge",
			Destination: &req.BadgeStyle,
		},
		&cli.StringFlag{
			Name:        "tone",
			Usage:       "Badge tone [Authoritative|Encouraging|Detailed|Concise|Engaging]",
			Category:    "Badge",
			Destination: &req.BadgeTone,
		},
		&cli.StringFlag{
			Name:        "criterion",
			Usage:       "Criterion style [Task-Oriented|Evidence-Based|Outcome-Focused]",
			Category:    "Badge",
			Destination: &req.CriterionStyle,
		},
		&cli.StringFlag{
			Name:        "level",
			Usage:       "Badge level [Beginner|Intermediate|Advanced|Expert]",
			Category:    "Badge",
			Destination: &req.BadgeLevel,
		},
		&cli.StringFlag{
			Name:        "institution",
			Usage:       "Issuing institution",
			Category:    "Badge",
			Destination: &req.Institution,
		},
		&cli.StringFlag{
			Name:        "instructions",
			Usage:       "Additional focus for the badge text",
			Category:    "Badge",
			Destination: &req.CustomInstructions,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the result as JSON",
			Destination: &asJSON,
		},
		&cli.BoolFlag{
			Name:        "stream",
			Usage:       "Print model output while it is generated",
			Destination: &stream,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"g"},
		Usage:     "Generate a single badge and print it",
		ArgsUsage: "<course titles or descriptions>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			req.CourseInput = strings.Join(c.Args().Slice(), " ")

			p, err := pipelineCfg.Configure(ctx, c)
			if err != nil {
				return err
			}

			var result *model.BadgeResult
			if stream {
				result, err = generateStreaming(ctx, p, &req, os.Stderr)
			} else {
				result, err = p.uc.Badge.Generate(ctx, &req)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to generate badge")
			}

			if asJSON {
				return printJSON(os.Stdout, result)
			}
			printBadge(os.Stdout, result)
			return nil
		},
	}
}

// generateStreaming echoes token deltas to w and returns the final result
func generateStreaming(ctx context.Context, p *pipeline, req *model.GenerationRequest, w io.Writer) (*model.BadgeResult, error) {
	attempt := 0
	for ev := range p.uc.Badge.GenerateStream(ctx, req) {
		switch ev.Type {
		case model.StreamEventToken:
			if ev.Attempt != attempt {
				if attempt != 0 {
					fmt.Fprintln(w)
				}
				attempt = ev.Attempt
				color.New(color.FgHiBlack).Fprintf(w, "[attempt %d] ", attempt)
			}
			fmt.Fprint(w, ev.Delta)
		case model.StreamEventFinal:
			fmt.Fprintln(w)
			return ev.Result, nil
		case model.StreamEventError:
			fmt.Fprintln(w)
			return nil, goerr.New(ev.Error.Message, goerr.V("kind", ev.Error.Kind))
		}
	}
	return nil, goerr.New("stream ended without a result")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return nil
}

func printBadge(w io.Writer, result *model.BadgeResult) {
	title := color.New(color.FgHiCyan, color.Bold)
	label := color.New(color.FgHiWhite, color.Bold)
	dim := color.New(color.FgHiBlack)

	b := result.Badge
	title.Fprintln(w, b.Name)
	dim.Fprintf(w, "%s  (%d attempt(s))\n\n", b.ID, b.Attempts)

	label.Fprintln(w, "Description")
	fmt.Fprintf(w, "  %s\n\n", b.Description)

	label.Fprintln(w, "Criteria")
	fmt.Fprintf(w, "  %s\n\n", b.Criteria.Narrative)

	label.Fprintln(w, "Parameters")
	fmt.Fprintf(w, "  style=%s tone=%s criterion=%s level=%s\n",
		b.Parameters.Style, b.Parameters.Tone, b.Parameters.Criterion, b.Parameters.Level)

	if result.Icon != nil {
		fmt.Fprintln(w)
		label.Fprintln(w, "Icon")
		printSuggestion(w, result.Icon)
	}
}

func printSuggestion(w io.Writer, s *model.IconSuggestion) {
	pick := color.New(color.FgGreen, color.Bold)
	pick.Fprintf(w, "  %s", s.Name)
	fmt.Fprintf(w, " %.3f (%s)\n", s.Score, s.Method)
	for _, alt := range s.Alternatives {
		fmt.Fprintf(w, "  %s %.3f\n", alt.Name, alt.Score)
	}
}
