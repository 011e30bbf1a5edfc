// Package chi exposes the index, retrieval and answer use cases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	askuc "github.com/kailas-cloud/mindsync/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/mindsync/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/mindsync/internal/usecase/indexing"
	retrievaluc "github.com/kailas-cloud/mindsync/internal/usecase/retrieval"
	"github.com/kailas-cloud/mindsync/internal/version"
)

const dateOnly = "2006-01-02"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	indexing      *indexinguc.Service
	retrieval     *retrievaluc.Service
	ask           *askuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	indexing *indexinguc.Service,
	retrieval *retrievaluc.Service,
	ask *askuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indexing:  indexing,
		retrieval: retrieval,
		ask:       ask,
		health:    health,
		logger:    logger,
		now:       time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrEntryNotFound, http.StatusNotFound, ErrorCodeEntryNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrResponderError, http.StatusBadGateway, ErrorCodeResponderError),
	}
	return s
}

// IndexEntry handles PUT /users/{userId}/entries/{entryId}.
func (s *Server) IndexEntry(w http.ResponseWriter, r *http.Request, userID, entryID string) {
	var req IndexEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "text is required")
		return
	}

	meta, err := s.metadataFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	rec, created, err := s.indexing.IndexEntry(r.Context(), userID, entryID, req.Text, meta)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/users/%s/entries/%s", userID, entryID))
	}
	writeJSON(w, status, entryToResponse(&rec))
}

// GetEntry handles GET /users/{userId}/entries/{entryId}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request, userID, entryID string) {
	rec, err := s.indexing.Get(r.Context(), userID, entryID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&rec))
}

// DeleteEntry handles DELETE /users/{userId}/entries/{entryId}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request, userID, entryID string) {
	if err := s.indexing.DeleteEntry(r.Context(), userID, entryID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearEntries handles DELETE /users/{userId}/entries.
func (s *Server) ClearEntries(w http.ResponseWriter, r *http.Request, userID string) {
	n, err := s.indexing.ClearUser(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClearResponse{Removed: n})
}

// ReindexEntries handles POST /users/{userId}/entries/reindex.
func (s *Server) ReindexEntries(w http.ResponseWriter, r *http.Request, userID string) {
	n, err := s.indexing.Reindex(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{Reindexed: n})
}

// Stats handles GET /users/{userId}/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request, userID string) {
	n, err := s.indexing.Count(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Entries: n})
}

// Retrieve handles GET /users/{userId}/retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request, userID string, params RetrieveParams) {
	if strings.TrimSpace(params.Q) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "q is required")
		return
	}

	results, err := s.retrieval.Retrieve(r.Context(), userID, params.Q, derefInt(params.TopK))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	explain := params.Explain != nil && *params.Explain
	items := make([]RetrievedEntry, len(results))
	for i := range results {
		items[i] = resultToResponse(&results[i])
		if explain {
			items[i].Topics = topicsToResponse(&results[i])
		}
	}
	writeJSON(w, http.StatusOK, RetrieveResponse{Results: items, Count: len(items)})
}

// RAGQuery handles POST /api/rag/query.
func (s *Server) RAGQuery(w http.ResponseWriter, r *http.Request) {
	var req RAGQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "userId and query are required")
		return
	}

	answer, err := s.ask.Ask(r.Context(), req.UserID, req.Query, derefInt(req.TopK))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := RAGQueryResponse{
		Success:     true,
		Response:    answer.Response,
		EntriesUsed: answer.EntriesUsed(),
	}
	if answer.Context != "" {
		resp.Context = &answer.Context
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

func (s *Server) metadataFromRequest(req *IndexEntryRequest) (domjournal.Metadata, error) {
	meta := domjournal.Metadata{Tags: req.Tags, Extra: req.Extra}

	if req.Mood != nil {
		mood, err := domjournal.ParseMood(*req.Mood)
		if err != nil {
			return domjournal.Metadata{}, err
		}
		meta.Mood = mood
	}

	if req.Date == nil || *req.Date == "" {
		meta.Date = s.now().UTC()
		return meta, nil
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		return domjournal.Metadata{}, err
	}
	meta.Date = date
	return meta, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date %q must be RFC 3339 or YYYY-MM-DD", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation errors carry their own message; other sentinels report the sentinel text.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrEntryNotFound,
		domain.ErrRateLimited,
		domain.ErrResponderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func entryToResponse(rec *domjournal.Record) EntryResponse {
	meta := rec.Metadata()
	return EntryResponse{
		UserID:       rec.UserID(),
		EntryID:      rec.EntryID(),
		Text:         rec.Text(),
		Date:         timePtr(meta.Date),
		Mood:         string(meta.Mood),
		Tags:         meta.Tags,
		Extra:        meta.Extra,
		EmbeddingDim: len(rec.Embedding()),
		IndexedAt:    rec.IndexedAt(),
	}
}

func resultToResponse(r *retrievaluc.Result) RetrievedEntry {
	return RetrievedEntry{
		EntryID:      r.EntryID,
		Text:         r.Text,
		Date:         timePtr(r.Metadata.Date),
		Mood:         string(r.Metadata.Mood),
		Tags:         r.Metadata.Tags,
		Similarity:   r.Similarity,
		KeywordMatch: r.KeywordMatch,
		Score:        r.Score,
	}
}

func topicsToResponse(r *retrievaluc.Result) []TopicMatch {
	out := make([]TopicMatch, len(r.Topics))
	for i, t := range r.Topics {
		out[i] = TopicMatch{Topic: t.Topic, QueryHits: t.QueryHits, EntryHits: t.EntryHits, Score: t.Score}
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
