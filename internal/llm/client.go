package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
	// JSON asks the server to constrain output to a JSON document.
	JSON bool
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
	Attempts  int
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available reports whether the server is reachable and has the
	// configured model pulled.
	Available(ctx context.Context) bool
}

// ollamaClient talks to the Ollama HTTP API: POST /api/generate for
// completions and GET /api/tags for the installed model list.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	return &ollamaClient{
		cfg:      cfg,
		http:     &http.Client{Transport: &http.Transport{DialContext: dialer.DialContext}},
		observer: observer,
	}
}

type generateBody struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Format  string          `json:"format,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateReply struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

type tagsReply struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate makes up to 1+MaxRetries attempts, each under the task timeout,
// waiting an increasing backoff between them. Errors map onto ErrTimeout,
// ErrUnavailable or ErrRetryExhausted; a cancelled ctx is returned as is.
func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	body := c.buildBody(req)
	timeout := c.cfg.TaskTimeout(req.Task)

	var (
		reply    *generateReply
		err      error
		attempts int
	)
	for attempts = 1; ; attempts++ {
		reply, err = c.attempt(ctx, body, timeout)
		if err == nil || attempts > c.cfg.MaxRetries || ctx.Err() != nil || !retryable(err) {
			break
		}
		if wait(ctx, c.cfg.backoff(attempts)) != nil {
			break
		}
	}

	event := LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
	}
	if err != nil {
		err = classify(ctx, err)
		event.ErrorCode = errorCode(err)
		c.observer.OnCallComplete(event)
		return nil, err
	}
	c.observer.OnCallComplete(event)
	return &GenerateResponse{
		Text:      reply.Response,
		Model:     reply.Model,
		LatencyMs: event.LatencyMs,
		Attempts:  attempts,
	}, nil
}

func (c *ollamaClient) buildBody(req GenerateRequest) generateBody {
	task := c.cfg.Tasks[req.Task]
	opts := generateOptions{Temperature: task.Temperature, NumPredict: task.MaxTokens}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		opts.NumPredict = *req.MaxTokens
	}
	body := generateBody{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Options: opts,
	}
	if req.JSON {
		body.Format = "json"
	}
	return body
}

// attempt runs one request under its own deadline so a slow first try
// does not consume the budget of the retry.
func (c *ollamaClient) attempt(ctx context.Context, body generateBody, timeout time.Duration) (*generateReply, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}
	var reply generateReply
	err = c.do(ctx, http.MethodPost, "/api/generate", bytes.NewReader(data), &reply)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.Mark(err, ErrTimeout)
	}
	return &reply, err
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var tags tagsReply
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return false
	}
	for _, m := range tags.Models {
		if sameModel(m.Name, c.cfg.Model) {
			return true
		}
	}
	return false
}

// do sends a request to path and decodes a 200 reply into out.
func (c *ollamaClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s response", path)
	}
	return nil
}

// sameModel treats "llama3.2" and "llama3.2:latest" as the same model.
func sameModel(installed, want string) bool {
	return installed == want || strings.TrimSuffix(installed, ":latest") == strings.TrimSuffix(want, ":latest")
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// classify maps the last attempt's failure onto one of the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(ctx.Err(), "llm request cancelled")
	case errors.Is(err, ErrTimeout), ctx.Err() != nil:
		return ErrTimeout
	case isConnectionError(err):
		return ErrUnavailable
	default:
		return errors.Mark(errors.Wrap(err, ErrRetryExhausted.Error()), ErrRetryExhausted)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return err != nil && errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}
