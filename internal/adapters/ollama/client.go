// Package ollama is a small client for an Ollama compatible generation service
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/logger"
	pstrings "rephraser/internal/platform/strings"
)

const (
	baseURLDefault      = "http://localhost:11434"
	modelDefault        = "llama3.2"
	temperatureDefault  = 0.3
	maxTokensDefault    = 200
	timeoutDefault      = 30 * time.Second
	probeTimeoutDefault = 2 * time.Second

	// cap on bytes read from any response body
	maxResponseBytes = 1 << 20
)

// Options configures the Client
type Options struct {
	BaseURL string
	Model   string
	// Temperature nil or negative means the 0.3 default, zero is sent as is
	Temperature *float64
	MaxTokens   int

	// Timeout bounds one generate call, ProbeTimeout bounds Ping
	Timeout      time.Duration
	ProbeTimeout time.Duration

	// HTTPClient is optional, timeouts are applied per call through the context
	HTTPClient *http.Client
}

// Client talks to /api/generate and /api/tags
type Client struct {
	http *http.Client
	opts Options
	temp float64
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with defaults for every zero option
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(pstrings.Or(o.BaseURL, baseURLDefault), "/")
	o.Model = pstrings.Or(o.Model, modelDefault)
	temp := temperatureDefault
	if o.Temperature != nil && *o.Temperature >= 0 {
		temp = *o.Temperature
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = maxTokensDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = timeoutDefault
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = probeTimeoutDefault
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		http: hc,
		opts: o,
		temp: temp,
		log:  *logger.Named("ollama"),
		now:  time.Now,
	}
}

// Temperature returns a settable temperature for Options
func Temperature(v float64) *float64 { return &v }

// Model returns the configured model name
func (c *Client) Model() string { return c.opts.Model }

// BaseURL returns the service root
func (c *Client) BaseURL() string { return c.opts.BaseURL }

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// Generate sends prompt as a single non streaming completion and returns the trimmed text
// transport failures, non 2xx replies, timeouts, and replies without text are ErrorCodeUnavailable
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.opts.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temp,
			NumPredict:  c.opts.MaxTokens,
		},
	})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "encode generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "generate new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "generation service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("model", c.opts.Model).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("generate response")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "read generate response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", perr.Unavailablef("generation service returned %d: %s", resp.StatusCode, snippet(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "malformed generate response")
	}
	if out.Response == nil {
		return "", perr.New(perr.ErrorCodeUnavailable, "generate response has no text")
	}
	text := strings.TrimSpace(*out.Response)
	if text == "" {
		return "", perr.New(perr.ErrorCodeUnavailable, "generate response is empty")
	}
	return text, nil
}

// Ping lists local models, any 2xx reply means the service is reachable
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/api/tags", nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "tags new request failed")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "generation service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Unavailablef("generation service returned %d", resp.StatusCode)
	}
	return nil
}

// Available is Ping as a bool
func (c *Client) Available(ctx context.Context) bool { return c.Ping(ctx) == nil }

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
