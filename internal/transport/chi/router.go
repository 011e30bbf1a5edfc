package chi

import (
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/metrics"
)

// RouterOptions configures the middleware chain.
type RouterOptions struct {
	Logger  *zap.Logger
	APIKeys []string
}

// InvalidParamError reports a path or query parameter that failed to bind.
type InvalidParamError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.ParamName, e.Err)
}

func (e *InvalidParamError) Unwrap() error { return e.Err }

// Handler builds the router with recovery, request ID, canonical logging, auth and metrics.
func Handler(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gochi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users/{userId}", func(r gochi.Router) {
		r.Get("/retrieve", withUser(s.handleRetrieve))
		r.Get("/stats", withUser(s.Stats))
		r.Delete("/entries", withUser(s.ClearEntries))
		r.Post("/entries/reindex", withUser(s.ReindexEntries))
		r.Put("/entries/{entryId}", withEntry(s.IndexEntry))
		r.Get("/entries/{entryId}", withEntry(s.GetEntry))
		r.Delete("/entries/{entryId}", withEntry(s.DeleteEntry))
	})
	r.Post("/api/rag/query", s.RAGQuery)

	return r
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

type entryHandler func(w http.ResponseWriter, r *http.Request, userID, entryID string)

func withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID string
		if err := bindPath(r, "userId", &userID); err != nil {
			writeParamError(w, err)
			return
		}
		h(w, r, userID)
	}
}

func withEntry(h entryHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID, entryID string
		if err := bindPath(r, "userId", &userID); err != nil {
			writeParamError(w, err)
			return
		}
		if err := bindPath(r, "entryId", &entryID); err != nil {
			writeParamError(w, err)
			return
		}
		h(w, r, userID, entryID)
	}
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request, userID string) {
	var params RetrieveParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "q", query, &params.Q); err != nil {
		writeParamError(w, &InvalidParamError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "top_k", query, &params.TopK); err != nil {
		writeParamError(w, &InvalidParamError{ParamName: "top_k", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "explain", query, &params.Explain); err != nil {
		writeParamError(w, &InvalidParamError{ParamName: "explain", Err: err})
		return
	}

	s.Retrieve(w, r, userID, params)
}

func bindPath(r *http.Request, name string, dest *string) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return &InvalidParamError{ParamName: name, Err: err}
	}
	return nil
}

func writeParamError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
}
