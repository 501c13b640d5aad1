// Package api exposes the HTTP interface of the aggregation service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
	"github.com/padraigk/jobradar/internal/metrics"
)

// Runner is the slice of the aggregator the HTTP surface needs.
type Runner interface {
	Crawl(ctx context.Context, profile *jobs.Profile) (*jobs.Result, error)
	Suggest(ctx context.Context, profile *jobs.Profile) (*jobs.Result, error)
	CrawlSource(ctx context.Context, name string, profile *jobs.Profile) (*jobs.Result, error)
}

// StatusReporter exposes per-source enablement for the status endpoint.
type StatusReporter interface {
	Status() map[string]bool
}

// Server wires HTTP handlers to the aggregator.
type Server struct {
	router         chi.Router
	runner         Runner
	sources        StatusReporter
	defaultProfile func() *jobs.Profile
	clock          jobs.Clock
	idGen          jobs.IDGenerator
	schedule       string
	logger         *zap.Logger
}

// NewServer constructs a Server with middleware and routes. defaultProfile
// supplies the profile for requests without a body.
func NewServer(
	runner Runner,
	sources StatusReporter,
	defaultProfile func() *jobs.Profile,
	clock jobs.Clock,
	idGen jobs.IDGenerator,
	schedule string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		runner:         runner,
		sources:        sources,
		defaultProfile: defaultProfile,
		clock:          clock,
		idGen:          idGen,
		schedule:       schedule,
		logger:         logger,
	}

	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(5 * time.Minute))

	r.Get("/health", s.health)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Get("/suggestions", s.suggestions)
		r.Post("/crawl", s.crawlAll)
		r.Post("/crawl/{source}", s.crawlSource)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.clock.Now(),
	})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"enabled":   true,
		"schedule":  s.schedule,
		"sources":   s.sources.Status(),
		"timestamp": s.clock.Now(),
	})
}

func (s *Server) crawlAll(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileFromRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.Crawl(r.Context(), profile)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"jobs":      result.Jobs,
		"stats":     result.Stats,
		"timestamp": s.clock.Now(),
	})
}

func (s *Server) crawlSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	profile, err := s.profileFromRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.CrawlSource(r.Context(), name, profile)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"jobs":      result.Jobs,
		"source":    name,
		"stats":     result.Stats,
		"timestamp": s.clock.Now(),
	})
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	result, err := s.runner.Suggest(r.Context(), s.defaultProfile())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"jobs":      result.Jobs,
		"stats":     result.Stats,
		"timestamp": s.clock.Now(),
	})
}

// profileFromRequest decodes an optional profile body. An empty body means
// the configured default profile.
func (s *Server) profileFromRequest(r *http.Request) (*jobs.Profile, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, errors.New("reading request body")
	}
	if len(body) == 0 {
		return s.defaultProfile(), nil
	}

	var profile jobs.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.New("invalid profile JSON")
	}
	if len(profile.TargetLocations) == 0 && len(profile.PreferredRoles) == 0 {
		return nil, errors.New("profile needs target_locations or preferred_roles")
	}
	return &profile, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{
		"success":   false,
		"error":     msg,
		"timestamp": s.clock.Now(),
	})
}
