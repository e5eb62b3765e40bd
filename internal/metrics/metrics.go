// Package metrics exposes the Prometheus registry used by todoboard.
// Metrics are defined next to the code that records them, registered through
// promauto.With(Registry):
//
// Remote client (internal/remote):
//   - todoboard_requests_total{op, status} (Counter): requests by operation and
//     HTTP status, or "network_error"
//   - todoboard_request_duration_seconds{op} (Histogram): request duration
//
// Dev server (internal/server):
//   - todoboard_server_requests_total{route, code} (Counter): requests by
//     route name and status code
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idilsaglam/todoboard/internal/logging"
)

// Registry holds every todoboard collector plus the Go and process
// collectors.
var Registry = newRegistry()

// Gatherer is what /metrics serves.
var Gatherer prometheus.Gatherer = Registry

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr
// disables the listener and returns immediately.
func Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	logger := logging.NewLogger("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Metrics listener started")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
