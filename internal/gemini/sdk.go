package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/sevencode7/rafiq/internal/chat"
)

// SDKClient implements Completer using the official Google Gen AI SDK
type SDKClient struct {
	client *genai.Client
	model  string
}

// NewSDKClient creates an SDK-backed client for the Gemini API backend.
func NewSDKClient(ctx context.Context, apiKey, model string) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &SDKClient{client: client, model: model}, nil
}

// Generate implements Completer.
func (s *SDKClient) Generate(ctx context.Context, messages []chat.Message, grounding []string) (Result, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, sdkContents(messages, grounding), sdkConfig())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return Result{}, &StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return Result{}, fmt.Errorf("generate content: %w", err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		raw = nil
	}
	return Result{Text: sdkText(resp), Raw: raw}, nil
}

func sdkContents(messages []chat.Message, grounding []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages)+1)
	contents = append(contents, &genai.Content{
		Role:  roleUser,
		Parts: []*genai.Part{{Text: SystemText(grounding)}},
	})
	for _, m := range messages {
		contents = append(contents, &genai.Content{
			Role:  UpstreamRole(m.Role),
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func sdkConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(Temperature)),
		TopP:            genai.Ptr(float32(TopP)),
		TopK:            genai.Ptr(float32(TopK)),
		MaxOutputTokens: MaxOutputTokens,
	}
}

func sdkText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return ""
	}
	return c.Content.Parts[0].Text
}
