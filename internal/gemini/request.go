// Package gemini talks to the Gemini generative-language API, either over
// plain REST or through the official genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sevencode7/rafiq/internal/chat"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"

	roleUser  = "user"
	roleModel = "model"
)

// Persona is the fixed instruction sent as the first user turn of every
// conversation.
const Persona = "أنت مساعد ذكي داخل تطبيق إسلامي شامل، تطوّره seven_code7 بقيادة ليث وبالله.\n" +
	"تتحدث بأدب واحترام وروح أخوية، وتذكّر بالصلاة والأذكار،\n" +
	"وتقدّم نصائح إيمانية وروحية رقيقة كصديق صالح. لا تُصدر فتاوى،\n" +
	"وعند الأسئلة الشرعية المختلف فيها، وجّه المستخدم لسؤال أهل العلم الموثوقين.\n" +
	"احرص على الإيجاز واللطف، وراعِ سياق المستخدم ووقته ومزاجه إن وُجد."

// Fixed sampling parameters.
const (
	Temperature     = 0.6
	TopP            = 0.9
	TopK            = 40
	MaxOutputTokens = 512
)

// Completer generates an assistant reply for a conversation. Grounding lines
// are appended to the persona turn.
type Completer interface {
	Generate(ctx context.Context, messages []chat.Message, grounding []string) (Result, error)
}

// Result is the extracted reply text plus the upstream response body.
type Result struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// Request represents the request to the generateContent endpoint
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content represents one conversation turn in Gemini format
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text part of a turn
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig represents generation configuration
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Response is the subset of the generateContent response we read
type Response struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Candidate represents a response candidate
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Text returns the first candidate's first text part, or "" when the
// response does not have that shape.
func (r Response) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// SystemText joins the persona with the grounding lines.
func SystemText(grounding []string) string {
	if len(grounding) == 0 {
		return Persona
	}
	return Persona + "\n" + strings.Join(grounding, "\n")
}

// UpstreamRole maps a chat role to the upstream role tag.
func UpstreamRole(r chat.Role) string {
	if r == chat.RoleAssistant {
		return roleModel
	}
	return roleUser
}

// BuildRequest converts a conversation into a generateContent request with
// the persona prepended as the first user turn.
func BuildRequest(messages []chat.Message, grounding []string) Request {
	contents := make([]Content, 0, len(messages)+1)
	contents = append(contents, Content{Role: roleUser, Parts: []Part{{Text: SystemText(grounding)}}})
	for _, m := range messages {
		contents = append(contents, Content{
			Role:  UpstreamRole(m.Role),
			Parts: []Part{{Text: m.Content}},
		})
	}

	return Request{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:     Temperature,
			TopP:            TopP,
			TopK:            TopK,
			MaxOutputTokens: MaxOutputTokens,
		},
	}
}

// ClientGrounding is the grounding a client sends when calling upstream
// itself: the whole metadata record on one line.
func ClientGrounding(meta any) []string {
	return []string{"سياق: " + marshalInline(meta)}
}

// ServerGrounding is the grounding the backend proxy adds: the caller's
// profile and assistant context plus reminder guidance.
func ServerGrounding(profile, assistantContext any) []string {
	return []string{
		"معلومات الملف الشخصي (اختياري): " + marshalInline(profile),
		"سياق المساعد: " + marshalInline(assistantContext),
		"عند التذكير: كن لطيفًا وواقعيًا، وقدّم أذكارًا موجزة أو آيات مناسبة دون إطالة.",
		"عند ملاحظة فتور أو انشغال: اقترح أعمالًا يسيرة (تسبيح، استغفار، دعاء قصير).",
	}
}

func marshalInline(v any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
