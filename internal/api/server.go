package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/sevencode7/rafiq/internal/config"
	"github.com/sevencode7/rafiq/internal/gemini"
)

const (
	appName    = "seven_code7-islamic-app"
	appVersion = "0.1.0"

	maxBodyBytes = 1 << 20
)

// Server is the rafiq backend: the Gemini proxy, the Google sign-in bridge,
// the content endpoints and the static client.
type Server struct {
	mu             sync.RWMutex
	cfg            *config.Config
	completer      gemini.Completer
	fixedCompleter bool

	verifier   IDTokenVerifier
	now        func() time.Time
	httpServer *http.Server
	stopped    bool
}

// Option configures a Server.
type Option func(*Server)

// WithCompleter replaces the upstream model client built from configuration.
func WithCompleter(c gemini.Completer) Option {
	return func(s *Server) {
		s.completer = c
		s.fixedCompleter = true
	}
}

// WithVerifier replaces the Google ID token verifier.
func WithVerifier(v IDTokenVerifier) Option {
	return func(s *Server) { s.verifier = v }
}

// WithClock sets the time source used for sessions and calendar output.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		verifier: GoogleVerifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload(cfg)
	return s
}

// Reload swaps in a new configuration. The upstream client is rebuilt unless
// one was supplied with WithCompleter.
func (s *Server) Reload(cfg *config.Config) {
	var c gemini.Completer
	if !s.fixedCompleter {
		c = newCompleter(cfg.Gemini)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if !s.fixedCompleter {
		s.completer = c
	}
}

func newCompleter(g config.GeminiConfig) gemini.Completer {
	if g.APIKey == "" {
		return nil
	}
	if g.Backend == config.BackendSDK {
		c, err := gemini.NewSDKClient(context.Background(), g.APIKey, g.Model)
		if err != nil {
			log.Error("Failed to create Gemini SDK client", "error", err)
			return nil
		}
		return c
	}
	return gemini.NewRESTClient(g.APIKey, gemini.WithBaseURL(g.BaseURL), gemini.WithModel(g.Model))
}

func (s *Server) snapshot() (*config.Config, gemini.Completer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.completer
}

func (s *Server) sessions() *SessionIssuer {
	cfg, _ := s.snapshot()
	return NewSessionIssuer(cfg.Auth.SessionSecret, s.now)
}

// Start starts the API server and blocks until it stops. After Stop it
// returns http.ErrServerClosed.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	log.Info("Starting API server", "addr", addr)
	return srv.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Router configures all routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)
	router.Use(s.corsMiddleware)

	// preflight requests need a matching route for the middleware to run
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.sessionMiddleware)

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/config", s.handleConfig).Methods("GET")

	api.HandleFunc("/auth/google", s.handleGoogleAuth).Methods("POST")
	api.HandleFunc("/auth/logout", s.handleLogout).Methods("POST")
	api.HandleFunc("/auth/me", s.handleMe).Methods("GET")

	api.HandleFunc("/ai", s.handleAI).Methods("POST")

	api.HandleFunc("/prayer-times", s.handlePrayerTimes).Methods("GET")
	api.HandleFunc("/calendar", s.handleCalendar).Methods("GET")
	api.HandleFunc("/quran/surahs", s.handleSurahs).Methods("GET")
	api.HandleFunc("/quran/surahs/{n:[0-9]+}", s.handleSurah).Methods("GET")
	api.HandleFunc("/quran/reciters", s.handleReciters).Methods("GET")
	api.HandleFunc("/quran/audio", s.handleAudio).Methods("GET")
	api.HandleFunc("/hadith", s.handleHadith).Methods("GET")
	api.HandleFunc("/azkar", s.handleAzkarCategories).Methods("GET")
	api.HandleFunc("/azkar/{category}", s.handleAzkar).Methods("GET")

	cfg, _ := s.snapshot()
	router.PathPrefix("/").Handler(spaHandler{dir: cfg.Server.StaticDir}).Methods("GET", "HEAD")

	return router
}

// corsMiddleware reflects allowed origins with credentials. With no
// configured allowlist every origin is allowed.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg, _ := s.snapshot()
		origin := r.Header.Get("Origin")
		allowed := origin != "" &&
			(len(cfg.Server.AllowedOrigins) == 0 || slices.Contains(cfg.Server.AllowedOrigins, origin))

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// Response helpers
func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	s.writeErrorDetails(w, message, "", code)
}

func (s *Server) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorBody{Error: message, Details: details})
}

// decodeBody reads a JSON body of at most maxBodyBytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{"ok": true, "name": appName, "version": appVersion})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, _ := s.snapshot()
	s.writeJSON(w, map[string]string{"googleClientId": cfg.Auth.GoogleClientID})
}
