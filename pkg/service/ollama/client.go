package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"github.com/secmon-lab/badgeforge/pkg/utils/safe"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "phi4badges:latest"
	DefaultTimeout = 120 * time.Second

	backendName = "ollama"

	// maxLineSize bounds a single NDJSON line of a streamed response
	maxLineSize = 1 << 20
)

// Client talks to the Ollama HTTP API
type Client struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

var (
	_ interfaces.Generator     = (*Client)(nil)
	_ interfaces.HealthChecker = (*Client)(nil)
)

type Option func(*Client)

// WithTimeout bounds each call, including the whole body of a streamed response
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates an Ollama client. Empty baseURL and model fall back to the defaults.
func New(baseURL, modelName string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req)
}

// do sends req and turns transport failures and non-2xx answers into ErrInferenceUnavailable
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "inference request failed",
			goerr.V("url", req.URL.String()),
			goerr.V("cause", err.Error()),
		)
	}

	if resp.StatusCode != http.StatusOK {
		defer safe.Close(ctx, resp.Body)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "inference service returned error status",
			goerr.V("url", req.URL.String()),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	return resp, nil
}

// Generate runs a single-shot completion
func (c *Client) Generate(ctx context.Context, prompt string, opts model.GenerationOptions) (*model.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.post(ctx, "/api/generate", &generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: newRequestOptions(opts),
	})
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, resp.Body)

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to decode inference response",
			goerr.V("cause", err.Error()))
	}
	if out.Error != "" {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "inference service reported error",
			goerr.V("error", out.Error))
	}

	logging.From(ctx).Debug("inference completed",
		"model", c.model,
		"prompt_tokens", out.PromptEvalCount,
		"completion_tokens", out.EvalCount,
		"duration", time.Since(start),
	)

	return &model.Completion{
		Text:             out.Response,
		Model:            c.model,
		PromptTokens:     out.PromptEvalCount,
		CompletionTokens: out.EvalCount,
		Duration:         time.Since(start),
	}, nil
}

// Stream runs a streamed completion. The response body is closed when iteration
// ends, including when the consumer stops early or ctx is cancelled.
func (c *Client) Stream(ctx context.Context, prompt string, opts model.GenerationOptions) iter.Seq2[*model.Fragment, error] {
	return func(yield func(*model.Fragment, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.post(ctx, "/api/generate", &generateRequest{
			Model:   c.model,
			Prompt:  prompt,
			Stream:  true,
			Options: newRequestOptions(opts),
		})
		if err != nil {
			yield(nil, err)
			return
		}
		defer safe.Close(ctx, resp.Body)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		var acc strings.Builder
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk generateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "malformed stream chunk",
					goerr.V("line", string(line)),
					goerr.V("cause", err.Error()),
				))
				return
			}
			if chunk.Error != "" {
				yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "inference service reported error",
					goerr.V("error", chunk.Error)))
				return
			}

			acc.WriteString(chunk.Response)
			if chunk.Done {
				yield(&model.Fragment{Delta: chunk.Response, Text: acc.String(), Done: true}, nil)
				return
			}
			if chunk.Response == "" {
				continue
			}
			if !yield(&model.Fragment{Delta: chunk.Response, Text: acc.String()}, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to read inference stream",
				goerr.V("cause", err.Error())))
			return
		}
		yield(nil, goerr.Wrap(model.ErrInferenceUnavailable, "inference stream ended without completion marker",
			goerr.V("received", acc.Len())))
	}
}

// Ping lists the installed models and reports whether the configured one is available
func (c *Client) Ping(ctx context.Context) (*model.InferenceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := &model.InferenceStatus{
		Backend:   backendName,
		Model:     c.model,
		CheckedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, resp.Body)

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, goerr.Wrap(model.ErrInferenceUnavailable, "failed to decode model list",
			goerr.V("cause", err.Error()))
	}

	for _, m := range tags.Models {
		status.Models = append(status.Models, m.Name)
		if sameModel(m.Name, c.model) {
			status.Available = true
		}
	}
	if !status.Available {
		status.Error = "model is not installed"
	}

	return status, nil
}

// sameModel compares model names treating a missing tag as "latest"
func sameModel(a, b string) bool {
	normalize := func(s string) string {
		if !strings.Contains(s, ":") {
			return s + ":latest"
		}
		return s
	}
	return normalize(a) == normalize(b)
}
