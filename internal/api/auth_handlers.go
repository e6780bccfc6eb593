package api

import (
	"net/http"

	"github.com/charmbracelet/log"
)

type googleAuthRequest struct {
	Credential string `json:"credential"`
}

type googleAuthResponse struct {
	OK   bool `json:"ok"`
	User User `json:"user"`
}

type meUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// handleGoogleAuth verifies a Google ID token and sets the session cookie.
func (s *Server) handleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.snapshot()
	if cfg.Auth.SessionSecret == "" {
		s.writeError(w, "Missing SESSION_SECRET", http.StatusInternalServerError)
		return
	}
	if cfg.Auth.GoogleClientID == "" {
		s.writeError(w, "Missing GOOGLE_CLIENT_ID", http.StatusInternalServerError)
		return
	}

	var req googleAuthRequest
	if err := decodeBody(w, r, &req); err != nil || req.Credential == "" {
		s.writeError(w, "Missing credential", http.StatusBadRequest)
		return
	}

	user, err := s.verifier.Verify(r.Context(), req.Credential, cfg.Auth.GoogleClientID)
	if err != nil {
		log.Debug("ID token rejected", "error", err)
		s.writeErrorDetails(w, "Auth failed", err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := s.sessions().Issue(user)
	if err != nil {
		s.writeErrorDetails(w, "Auth failed", err.Error(), http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, sessionCookieFor(token, cfg.Auth.SecureCookie))
	s.writeJSON(w, googleAuthResponse{OK: true, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, clearedSessionCookie())
	s.writeJSON(w, map[string]bool{"ok": true})
}

// handleMe returns the session user, or 204 when there is none.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, map[string]meUser{"user": {Name: u.Name, Email: u.Email, Picture: u.Picture}})
}
