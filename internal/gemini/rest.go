package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/chat"
)

const maxErrorBody = 4096

// RESTClient calls generateContent over HTTP with the key as a query parameter.
type RESTClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	retry   RetryConfig
}

// Option configures a RESTClient
type Option func(*RESTClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *RESTClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides the model name.
func WithModel(m string) Option {
	return func(c *RESTClient) {
		if m != "" {
			c.model = m
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) { c.client = hc }
}

// WithRetry sets the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *RESTClient) { c.retry = cfg }
}

// NewRESTClient creates a REST client for the given key.
func NewRESTClient(apiKey string, opts ...Option) *RESTClient {
	c := &RESTClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		client:  &http.Client{Timeout: 60 * time.Second},
		retry:   DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the generateContent URL without the key.
func (c *RESTClient) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

// Generate implements Completer.
func (c *RESTClient) Generate(ctx context.Context, messages []chat.Message, grounding []string) (Result, error) {
	body, err := json.Marshal(BuildRequest(messages, grounding))
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	return withRetry(ctx, c.retry, func(ctx context.Context) (Result, error) {
		return c.do(ctx, body)
	})
}

func (c *RESTClient) do(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.URL.RawQuery = "key=" + url.QueryEscape(c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Debug("gemini upstream error", "status", resp.StatusCode, "model", c.model)
		return Result{}, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(errBody),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return Result{Text: parsed.Text(), Raw: json.RawMessage(raw)}, nil
}
