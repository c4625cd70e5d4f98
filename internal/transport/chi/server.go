package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openlabor/wagedex/internal/domain"
	"github.com/openlabor/wagedex/internal/domain/salary"
	healthuc "github.com/openlabor/wagedex/internal/usecase/health"
	statsuc "github.com/openlabor/wagedex/internal/usecase/salarystats"
)

// Error codes returned to clients.
const (
	codeInvalidQuery  = "invalid_query"
	codeInternalError = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the salary statistics API.
type Server struct {
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(stats *statsuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		stats:  stats,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
	}
	return s
}

// Routes registers the API routes on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/salary", s.GetSalary)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// salaryResponse is the wire form of a statistics answer. Pointer fields
// render as JSON null when no records matched.
type salaryResponse struct {
	DataPoints   int64    `json:"data_points"`
	MeanSalary   *float64 `json:"mean_salary"`
	MedianSalary *float64 `json:"median_salary"`
	Percentile25 *float64 `json:"percentile_25"`
	Percentile75 *float64 `json:"percentile_75"`
}

// errorResponse is the wire form of an error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetSalary handles GET /salary.
func (s *Server) GetSalary(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	location := r.URL.Query().Get("location")

	stats, err := s.stats.Query(r.Context(), title, location)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

// HealthCheck handles GET /healthz.
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

func statsToResponse(stats salary.Stats) salaryResponse {
	return salaryResponse{
		DataPoints:   stats.DataPoints,
		MeanSalary:   stats.Mean,
		MedianSalary: stats.P50,
		Percentile25: stats.P25,
		Percentile75: stats.P75,
	}
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
		domain.ErrInvalidQuery,
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
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
