package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sevencode7/rafiq/internal/chat"
)

// ProxyRequest is the body accepted by the backend's /api/ai endpoint.
type ProxyRequest struct {
	Messages         []chat.Message `json:"messages"`
	UserProfile      map[string]any `json:"userProfile"`
	AssistantContext any            `json:"assistantContext"`
}

// ProxyResponse is the success body returned by /api/ai.
type ProxyResponse struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// Proxy asks the backend, which holds the upstream key, to complete.
type Proxy struct {
	endpoint string
	client   *http.Client
}

// NewProxy creates a proxy strategy for a backend base URL such as
// "http://localhost:5174".
func NewProxy(backendURL string, client *http.Client) *Proxy {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Proxy{
		endpoint: strings.TrimRight(backendURL, "/") + "/api/ai",
		client:   client,
	}
}

// Name implements Strategy.
func (p *Proxy) Name() string { return "proxy" }

// Complete implements Strategy.
func (p *Proxy) Complete(ctx context.Context, messages []chat.Message, meta Meta) (string, error) {
	body, err := json.Marshal(ProxyRequest{
		Messages:         messages,
		UserProfile:      meta.Profile,
		AssistantContext: meta.Context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	var out ProxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode proxy response: %w", err)
	}
	return out.Text, nil
}
