package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/internal/logging"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/permalink"
	"github.com/aretw0/algotrace/pkg/session"
)

// Engine defines what the server needs from the algotrace core.
type Engine interface {
	Algorithms() []algorithms.Definition
	Build(ctx context.Context, algorithmID string, in domain.Input) (*domain.Run, error)
}

// Server serves the catalog, run building, permalinks and live sessions.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Metrics  *observability.Collector

	// BaseURL is the page permalinks point at (default "/").
	BaseURL string

	bodies *bodyValidator
	apiVer string
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessions shares an existing session manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithMetrics exposes c on /metrics.
func WithMetrics(c *observability.Collector) Option {
	return func(s *Server) {
		s.Metrics = c
	}
}

// WithBaseURL sets the page permalinks point at.
func WithBaseURL(base string) Option {
	return func(s *Server) {
		s.BaseURL = base
	}
}

// NewHandler creates the HTTP handler for engine.
// It fails only if the embedded API document is invalid.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Engine:  engine,
		BaseURL: "/",
		bodies:  newBodyValidator(doc),
		logger:  logging.NewNop(),
	}
	if doc.Info != nil {
		s.apiVer = doc.Info.Version
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Sessions == nil {
		s.Sessions = session.NewManager(session.WithLogger(s.logger), session.WithMetrics(s.Metrics))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawDoc)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/algorithms", s.ListAlgorithms)
	r.Get("/algorithms/{id}", s.GetAlgorithm)
	r.Post("/runs", s.BuildRun)
	r.Get("/permalink", s.DecodePermalink)
	r.Post("/permalink", s.EncodePermalink)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.OpenSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.CloseSession)
			r.Post("/forward", s.command(cmdForward))
			r.Post("/backward", s.command(cmdBackward))
			r.Post("/reset", s.command(cmdReset))
			r.Post("/play", s.command(cmdPlay))
			r.Post("/pause", s.command(cmdPause))
			r.Put("/speed", s.SetSpeed)
			r.Put("/loop", s.SetLoop)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>algotrace API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// BuildRequest is the body of POST /runs and POST /permalink.
type BuildRequest struct {
	AlgorithmID string       `json:"algorithmId"`
	Input       domain.Input `json:"input"`
}

// PermalinkResponse carries an encoded state parameter.
type PermalinkResponse struct {
	State string `json:"state"`
	URL   string `json:"url"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := s.apiVer
	if apiVersion == "" {
		apiVersion = "unknown"
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "algotrace-http",
		"version":     strings.TrimSpace(algotrace.Version),
		"api_version": apiVersion,
	})
}

// ListAlgorithms handles the GET /algorithms request.
func (s *Server) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Algorithms())
}

// GetAlgorithm handles the GET /algorithms/{id} request.
func (s *Server) GetAlgorithm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, d := range s.Engine.Algorithms() {
		if d.ID == id {
			s.writeJSON(w, http.StatusOK, d)
			return
		}
	}
	s.writeError(w, fmt.Errorf("%w: %q", domain.ErrAlgorithmNotFound, id))
}

// BuildRun handles the POST /runs request.
func (s *Server) BuildRun(w http.ResponseWriter, r *http.Request) {
	var body BuildRequest
	if err := s.bodies.decode(r, "BuildRequest", &body); err != nil {
		s.logger.Warn("BuildRun: Invalid request body", "error", err)
		s.writeError(w, err)
		return
	}

	run, err := s.Engine.Build(r.Context(), body.AlgorithmID, body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// EncodePermalink handles the POST /permalink request.
func (s *Server) EncodePermalink(w http.ResponseWriter, r *http.Request) {
	var body BuildRequest
	if err := s.bodies.decode(r, "BuildRequest", &body); err != nil {
		s.writeError(w, err)
		return
	}
	if _, ok := algorithms.Lookup(body.AlgorithmID); !ok {
		s.writeError(w, fmt.Errorf("%w: %q", domain.ErrAlgorithmNotFound, body.AlgorithmID))
		return
	}

	link, err := permalink.URL(s.BaseURL, body.AlgorithmID, body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PermalinkResponse{
		State: permalink.Encode(body.AlgorithmID, body.Input),
		URL:   link,
	})
}

// DecodePermalink handles the GET /permalink?state= request.
func (s *Server) DecodePermalink(w http.ResponseWriter, r *http.Request) {
	p, err := permalink.Decode(r.URL.Query().Get(permalink.QueryParam))
	if err != nil {
		s.logger.Warn("DecodePermalink: rejected", "error", err)
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlgorithmNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPermalink):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
