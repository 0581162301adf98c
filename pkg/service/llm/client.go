package llm

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
)

const DefaultTimeout = 120 * time.Second

// Client adapts a gollem LLM client to interfaces.Generator. Temperature, top_p
// and the token limit are forwarded per call; the remaining sampling options
// have no gollem counterpart and keep the backend defaults.
type Client struct {
	llm     gollem.LLMClient
	backend string
	model   string
	timeout time.Duration
}

var (
	_ interfaces.Generator     = (*Client)(nil)
	_ interfaces.HealthChecker = (*Client)(nil)
)

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBackend sets the names reported by Ping
func WithBackend(backend, modelName string) Option {
	return func(c *Client) {
		c.backend = backend
		c.model = modelName
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) *Client {
	c := &Client{
		llm:     llmClient,
		backend: "gollem",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newSession(ctx context.Context) (gollem.Session, error) {
	session, err := c.llm.NewSession(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to create LLM session",
			goerr.V("cause", err.Error()))
	}
	return session, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, opts model.GenerationOptions) (*model.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.newSession(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)}, generateOptions(opts)...)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to generate content",
			goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Debug("inference completed", "backend", c.backend, "duration", time.Since(start))

	return &model.Completion{
		Text:     strings.Join(resp.Texts, ""),
		Model:    c.model,
		Duration: time.Since(start),
	}, nil
}

// Stream relays streamed responses. The channel closing marks completion unless ctx expired first.
func (c *Client) Stream(ctx context.Context, prompt string, opts model.GenerationOptions) iter.Seq2[*model.Fragment, error] {
	return func(yield func(*model.Fragment, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		session, err := c.newSession(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		ch, err := session.Stream(ctx, []gollem.Input{gollem.Text(prompt)}, generateOptions(opts)...)
		if err != nil {
			yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to start stream",
				goerr.V("cause", err.Error())))
			return
		}
		// keep the producer from blocking once we stop reading
		defer func() {
			go func() {
				for range ch {
				}
			}()
		}()

		var acc strings.Builder
		for resp := range ch {
			if resp == nil {
				continue
			}
			if resp.Error != nil {
				yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "stream failed",
					goerr.V("cause", resp.Error.Error()), goerr.V("received", acc.Len())))
				return
			}
			delta := strings.Join(resp.Texts, "")
			if delta == "" {
				continue
			}
			acc.WriteString(delta)
			if !yield(&model.Fragment{Delta: delta, Text: acc.String()}, nil) {
				return
			}
		}

		if err := ctx.Err(); err != nil {
			yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "stream interrupted",
				goerr.V("cause", err.Error()), goerr.V("received", acc.Len())))
			return
		}
		yield(&model.Fragment{Text: acc.String(), Done: true}, nil)
	}
}

// generateOptions maps the sampling options gollem supports. Zero values keep the backend default.
func generateOptions(opts model.GenerationOptions) []gollem.GenerateOption {
	var out []gollem.GenerateOption
	if opts.Temperature > 0 {
		out = append(out, gollem.WithTemperature(opts.Temperature))
	}
	if opts.TopP > 0 {
		out = append(out, gollem.WithTopP(opts.TopP))
	}
	if opts.MaxTokens > 0 {
		out = append(out, gollem.WithMaxTokens(opts.MaxTokens))
	}
	return out
}

// Ping counts tokens of a tiny input, which requires a working backend without generating text
func (c *Client) Ping(ctx context.Context) (*model.InferenceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.newSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := session.CountToken(ctx, gollem.Text("ping")); err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to reach LLM backend",
			goerr.V("cause", err.Error()))
	}

	return &model.InferenceStatus{
		Backend:   c.backend,
		Model:     c.model,
		Available: true,
		CheckedAt: time.Now().UTC(),
	}, nil
}
