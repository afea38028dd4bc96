// Package chi is the HTTP transport: routing, request decoding, and domain
// error mapping for the discovery and analysis APIs.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/metrics"
	discoveryuc "github.com/dinerank/dinerank/internal/usecase/discovery"
	healthuc "github.com/dinerank/dinerank/internal/usecase/health"
	profileuc "github.com/dinerank/dinerank/internal/usecase/profile"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	discovery     *discoveryuc.Service
	profile       *profileuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	discovery *discoveryuc.Service,
	profile *profileuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		discovery: discovery,
		profile:   profile,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusBadGateway, codeSourceUnavailable),
	}
	return s
}

// Router builds the chi router with all routes mounted. Cross-cutting
// middleware (recovery, request IDs, canonical request logs) is composed by
// the caller around this router.
func (s *Server) Router() http.Handler {
	r := chirouter.NewRouter()
	r.Use(metrics.Middleware())

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/search", s.Search)
		r.Post("/analysis", s.Analyze)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var payload searchRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := toSearchRequest(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.discovery.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(res))
}

// Analyze handles POST /api/v1/analysis.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var payload analysisRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := toAnalysisRequest(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.profile.Analyze(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrSourceUnavailable,
		domain.ErrNarrativeUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
