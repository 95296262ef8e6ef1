// Package chi exposes the retrieval pipeline over a small HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/corpus"
	"github.com/kailas-cloud/faqdex/internal/domain/match"
	"github.com/kailas-cloud/faqdex/internal/metrics"
	"github.com/kailas-cloud/faqdex/internal/usecase/health"
	"github.com/kailas-cloud/faqdex/internal/usecase/redact"
	"github.com/kailas-cloud/faqdex/internal/usecase/retrieval"
	"github.com/kailas-cloud/faqdex/internal/usecase/transcript"
)

// Retriever runs the query pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (retrieval.Result, error)
}

// EntrySource resolves matched ids to corpus entries.
type EntrySource interface {
	Entry(id int) (corpus.Entry, bool)
}

// HealthService reports component readiness.
type HealthService interface {
	Check(ctx context.Context) health.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves search, disclosure, and health endpoints. Masking and
// transcript formatting happen here, on the way out: only disclosed results
// are ever rendered.
type Server struct {
	retriever     Retriever
	entries       EntrySource
	masker        *redact.RuleSet
	formatter     *transcript.Formatter
	health        HealthService
	sessions      *sessionRegistry
	pageSize      int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	retriever Retriever,
	entries EntrySource,
	masker *redact.RuleSet,
	formatter *transcript.Formatter,
	healthSvc HealthService,
	pageSize int,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retriever: retriever,
		entries:   entries,
		masker:    masker,
		formatter: formatter,
		health:    healthSvc,
		sessions:  newSessionRegistry(sessionTTL),
		pageSize:  pageSize,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Mount registers the API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/search/more", s.handleMore)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// --- Wire types ---

// Error response codes.
const (
	codeBadRequest             = "bad_request"
	codeSessionNotFound        = "session_not_found"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
	// SessionID optionally names the previous query's session, discarded as
	// the new query replaces it.
	SessionID string `json:"session_id,omitempty"`
}

type moreRequest struct {
	SessionID string `json:"session_id"`
}

type turnPayload struct {
	Speaker string `json:"speaker"`
	Body    string `json:"body"`
}

type resultPayload struct {
	ID       int           `json:"id"`
	Score    float64       `json:"score"`
	Genre    string        `json:"genre,omitempty"`
	Question string        `json:"question"`
	Answer   []turnPayload `json:"answer"`
}

type searchResponse struct {
	SessionID string          `json:"session_id,omitempty"`
	Outcome   string          `json:"outcome"`
	Total     int             `json:"total"`
	Results   []resultPayload `json:"results"`
}

// --- Handlers ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	res, err := s.retriever.Retrieve(r.Context(), req.Query)
	if err != nil {
		metrics.RetrievalQueriesTotal.WithLabelValues("error").Inc()
		s.handleError(w, err, "search failed")
		return
	}

	metrics.RetrievalQueriesTotal.WithLabelValues(string(res.Outcome)).Inc()
	metrics.RetrievalMatchCount.Observe(float64(len(res.Matches)))

	// A blank query is "no query submitted": the previous session is
	// discarded and no new one starts.
	if res.Outcome == retrieval.OutcomeNoQuery {
		s.sessions.drop(req.SessionID)
		writeJSON(w, http.StatusOK, searchResponse{
			Outcome: string(res.Outcome),
			Results: []resultPayload{},
		})
		return
	}

	id, view := s.sessions.create(s.pageSize, res, req.SessionID)
	writeJSON(w, http.StatusOK, searchResponse{
		SessionID: id,
		Outcome:   string(view.outcome),
		Total:     view.total,
		Results:   s.renderMatches(view.visible),
	})
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	var req moreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	view, err := s.sessions.expand(req.SessionID)
	if err != nil {
		s.handleError(w, err, "expand session")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		SessionID: req.SessionID,
		Outcome:   string(view.outcome),
		Total:     view.total,
		Results:   s.renderMatches(view.visible),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == health.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// renderMatches masks and formats the disclosed prefix. Masking runs before
// formatting, so any markup escaping the formatter does operates on already
// redacted text.
func (s *Server) renderMatches(matches []match.Match) []resultPayload {
	results := make([]resultPayload, 0, len(matches))
	for _, m := range matches {
		entry, ok := s.entries.Entry(m.EntryID())
		if !ok {
			s.logger.Warn("Ranked match has no corpus entry", zap.Int("entry_id", m.EntryID()))
			continue
		}

		turns := s.formatter.Format(s.masker.Apply(entry.Answer()))
		answer := make([]turnPayload, 0, len(turns))
		for _, t := range turns {
			answer = append(answer, turnPayload{Speaker: string(t.Speaker()), Body: t.Body()})
		}

		results = append(results, resultPayload{
			ID:       entry.ID(),
			Score:    m.Score(),
			Genre:    entry.Genre(),
			Question: s.masker.Apply(entry.Question()),
			Answer:   answer,
		})
	}
	return results
}

// --- Error mapping ---

func (s *Server) handleError(w http.ResponseWriter, err error, msg string) {
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}

	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler maps a sentinel error to a status code and response code.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
