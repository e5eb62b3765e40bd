package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCounter = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
	Name: "todoboard_metrics_test_total",
	Help: "Counter used by the metrics package tests",
})

func TestRegistryIsolatedFromDefault(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotEqual(t, "todoboard_metrics_test_total", f.GetName())
	}
}

func TestHandlerExposesPromautoMetrics(t *testing.T) {
	testCounter.Add(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "todoboard_metrics_test_total 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServe_EmptyAddrIsDisabled(t *testing.T) {
	assert.NoError(t, Serve(context.Background(), ""))
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Serve(ctx, "127.0.0.1:0"))
}
