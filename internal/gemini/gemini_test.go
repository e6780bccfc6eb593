package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode7/rafiq/internal/chat"
)

func TestBuildRequest(t *testing.T) {
	msgs := []chat.Message{
		{Role: chat.RoleUser, Content: "السلام عليكم"},
		{Role: chat.RoleAssistant, Content: "وعليكم السلام"},
		{Role: chat.RoleUser, Content: "ذكرني بالأذكار"},
	}
	req := BuildRequest(msgs, []string{"سياق: {}"})

	require.Len(t, req.Contents, 4)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.True(t, strings.HasPrefix(req.Contents[0].Parts[0].Text, Persona))
	assert.True(t, strings.HasSuffix(req.Contents[0].Parts[0].Text, "\nسياق: {}"))

	assert.Equal(t, "user", req.Contents[1].Role)
	assert.Equal(t, "model", req.Contents[2].Role)
	assert.Equal(t, "user", req.Contents[3].Role)
	assert.Equal(t, "وعليكم السلام", req.Contents[2].Parts[0].Text)

	require.NotNil(t, req.GenerationConfig)
	assert.Equal(t, GenerationConfig{Temperature: 0.6, TopP: 0.9, TopK: 40, MaxOutputTokens: 512}, *req.GenerationConfig)
}

func TestServerGroundingIncludesProfileAndContext(t *testing.T) {
	lines := ServerGrounding(map[string]any{"name": "ليث"}, map[string]any{"streakPoints": 3})
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `{"name":"ليث"}`)
	assert.Contains(t, lines[1], `{"streakPoints":3}`)
	assert.Equal(t, []string{"سياق: {}"}, ClientGrounding(nil))
}

func newUpstream(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Contents)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRESTClientGenerate(t *testing.T) {
	history := []chat.Message{{Role: chat.RoleUser, Content: "السلام عليكم"}}

	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{
			name:   "well formed",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"role":"model","parts":[{"text":"وعليكم السلام"}]}}]}`,
			want:   "وعليكم السلام",
		},
		{name: "no candidates", status: http.StatusOK, body: `{}`, want: ""},
		{name: "no parts", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[]}}]}`, want: ""},
		{name: "no content", status: http.StatusOK, body: `{"candidates":[{"finishReason":"SAFETY"}]}`, want: ""},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.status, tt.body, nil)
			c := NewRESTClient("test-key", WithBaseURL(srv.URL), WithRetry(NoRetry()))

			res, err := c.Generate(context.Background(), history, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.JSONEq(t, tt.body, string(res.Raw))
		})
	}
}

func TestRESTClientStatusError(t *testing.T) {
	srv := newUpstream(t, http.StatusForbidden, `denied`, nil)
	c := NewRESTClient("test-key", WithBaseURL(srv.URL), WithRetry(NoRetry()))

	_, err := c.Generate(context.Background(), nil, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "denied", se.Body)
}

func TestRESTClientRetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	c := NewRESTClient("test-key", WithBaseURL(srv.URL), WithRetry(cfg))

	res, err := c.Generate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, int32(2), hits.Load())
}

func TestRESTClientDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, http.StatusBadRequest, `{}`, &hits)

	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	c := NewRESTClient("test-key", WithBaseURL(srv.URL), WithRetry(cfg))

	_, err := c.Generate(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestBackoffBounds(t *testing.T) {
	cfg := DefaultRetryConfig()
	for attempt := 0; attempt < 10; attempt++ {
		d := cfg.backoff(attempt)
		assert.GreaterOrEqual(t, d, cfg.BaseDelay)
		assert.LessOrEqual(t, d, cfg.MaxDelay)
	}
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Zero(t, parseRetryAfter("soon"))
}

func TestSDKContents(t *testing.T) {
	contents := sdkContents([]chat.Message{
		{Role: chat.RoleUser, Content: "a"},
		{Role: chat.RoleAssistant, Content: "b"},
	}, nil)

	require.Len(t, contents, 3)
	assert.Equal(t, Persona, contents[0].Parts[0].Text)
	assert.Equal(t, "model", contents[2].Role)

	cfg := sdkConfig()
	assert.Equal(t, float32(0.6), *cfg.Temperature)
	assert.Equal(t, float32(40), *cfg.TopK)
	assert.Equal(t, int32(512), cfg.MaxOutputTokens)
	assert.Equal(t, "", sdkText(nil))
}
