// Package server is a JSONPlaceholder-compatible todo REST server for local
// development. The board and the one-shot commands can be pointed at it with
// api.base_url; the remote client tests run against it.
//
// Like JSONPlaceholder, DELETE answers 200 with an empty object whether or not
// the id exists.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/todoboard/internal/logging"
	"github.com/idilsaglam/todoboard/internal/metrics"
	"github.com/idilsaglam/todoboard/internal/model"
)

// Defaults mirror json-server's pagination.
const (
	defaultLimit = 10
	maxBodyBytes = 1 << 20
)

var serverRequestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
	Name: "todoboard_server_requests_total",
	Help: "Dev server requests by route and status code",
}, []string{"route", "code"})

// Server serves the todo routes from a Store.
type Server struct {
	store   Store
	logger  zerolog.Logger
	metrics bool
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts the metrics registry at /metrics.
func WithMetrics() Option { return func(s *Server) { s.metrics = true } }

// New builds the router over store.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: logging.NewLogger("server"),
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet).Name("health")

	r.HandleFunc("/todos", s.handleList).Methods(http.MethodGet).Name("list")
	r.HandleFunc("/todos", s.handleCreate).Methods(http.MethodPost).Name("create")
	r.HandleFunc("/todos/{id:[0-9]+}", s.handleGet).Methods(http.MethodGet).Name("get")
	r.HandleFunc("/todos/{id:[0-9]+}", s.handleUpdate).Methods(http.MethodPut, http.MethodPatch).Name("update")
	r.HandleFunc("/todos/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete).Name("delete")

	if s.metrics {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")
	}
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Dev server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("Dev server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, okPage := queryInt(q.Get("_page"))
	limit, okLimit := queryInt(q.Get("_limit"))
	switch {
	case okPage && !okLimit:
		limit = defaultLimit
	case !okPage && okLimit:
		page = 1
	case !okPage && !okLimit:
		page, limit = 1, 0
	}

	items, total, err := s.store.List(r.Context(), page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	w.Header().Set("Access-Control-Expose-Headers", "X-Total-Count")
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	it, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Item
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	created, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var p Patch
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	it, err := s.store.Update(r.Context(), id, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := s.store.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	s.logger.Error().Err(err).
		Str("path", r.URL.Path).
		Str("request_id", r.Header.Get("X-Request-ID")).
		Msg("Store error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// requestLog assigns a request id when the client sent none, then logs and
// counts the request by route name.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set("X-Request-ID", reqID)
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil && cr.GetName() != "" {
			route = cr.GetName()
		}
		serverRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", reqID).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
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

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
