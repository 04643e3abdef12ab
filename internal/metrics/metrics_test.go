package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordDispatch("transfer")
	m.RecordReply()
	m.RecordRateLimited()
	m.SetActiveSessions(3)
	m.RecordRPC("chain_getHeader", time.Millisecond, nil)
	m.RecordPlaceholderBalance()
	m.RecordUploadStarted()
	m.RecordUploadFinished()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordDispatch("nft")
	a.RecordDispatch("nft")
	b.RecordDispatch("nft")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.DispatchTotal.WithLabelValues("nft")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.DispatchTotal.WithLabelValues("nft")))
}

func TestRecordRPCStatus(t *testing.T) {
	m := New()
	m.RecordRPC("state_getStorage", time.Millisecond, nil)
	m.RecordRPC("state_getStorage", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequestsTotal.WithLabelValues("state_getStorage", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequestsTotal.WithLabelValues("state_getStorage", "error")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/jobs/{jobID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/jobs/{jobID}", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordReply()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "polkaforge_chat_replies_delivered_total 1")
}
