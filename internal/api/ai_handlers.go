package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/gemini"
)

type aiRequest struct {
	Messages         []chat.Message `json:"messages"`
	UserProfile      any            `json:"userProfile"`
	AssistantContext any            `json:"assistantContext"`
}

type aiResponse struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw"`
}

// handleAI forwards a conversation to Gemini with the persona and the
// caller's profile and context as grounding.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	cfg, completer := s.snapshot()
	if cfg.Gemini.APIKey == "" || completer == nil {
		s.writeError(w, "Missing GEMINI_API_KEY", http.StatusInternalServerError)
		return
	}

	var req aiRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeErrorDetails(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserProfile == nil {
		req.UserProfile = map[string]any{}
	}
	if req.AssistantContext == nil {
		req.AssistantContext = map[string]any{}
	}

	res, err := completer.Generate(r.Context(), req.Messages, gemini.ServerGrounding(req.UserProfile, req.AssistantContext))
	if err != nil {
		var statusErr *gemini.StatusError
		if errors.As(err, &statusErr) {
			log.Warn("Gemini upstream error", "status", statusErr.StatusCode)
			s.writeErrorDetails(w, "Upstream error", statusErr.Body, http.StatusBadGateway)
			return
		}
		log.Error("Gemini request failed", "error", err)
		s.writeErrorDetails(w, "Server error", err.Error(), http.StatusInternalServerError)
		return
	}

	raw := res.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	s.writeJSON(w, aiResponse{Text: res.Text, Raw: raw})
}
