// Package metrics provides Prometheus metrics for the PolkaForge backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Chat
	DispatchTotal    *prometheus.CounterVec
	RepliesDelivered prometheus.Counter
	ActiveSessions   prometheus.Gauge
	RateLimited      prometheus.Counter

	// Chain RPC
	RPCRequestsTotal   *prometheus.CounterVec
	RPCRequestDuration *prometheus.HistogramVec
	PlaceholderBalance prometheus.Counter

	// Repo wizard
	UploadsStarted  prometheus.Counter
	UploadsFinished prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polkaforge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polkaforge_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polkaforge_chat_dispatch_total",
				Help: "Chat inputs dispatched, by selected template",
			},
			[]string{"template"},
		),
		RepliesDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "polkaforge_chat_replies_delivered_total",
			Help: "Assistant replies delivered after the simulated delay",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "polkaforge_chat_active_sessions",
			Help: "Number of live chat sessions",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "polkaforge_chat_rate_limited_total",
			Help: "Chat sends rejected by the per-session rate limiter",
		}),

		RPCRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polkaforge_rpc_requests_total",
				Help: "Chain RPC calls by method and outcome",
			},
			[]string{"method", "status"},
		),
		RPCRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polkaforge_rpc_request_duration_seconds",
				Help:    "Duration of chain RPC calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		PlaceholderBalance: factory.NewCounter(prometheus.CounterOpts{
			Name: "polkaforge_wallet_placeholder_balance_total",
			Help: "Balance lookups answered with a placeholder after an RPC failure",
		}),

		UploadsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "polkaforge_repo_uploads_started_total",
			Help: "Simulated repository uploads started",
		}),
		UploadsFinished: factory.NewCounter(prometheus.CounterOpts{
			Name: "polkaforge_repo_uploads_finished_total",
			Help: "Simulated repository uploads that reached the minted stage",
		}),
	}
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDispatch counts one dispatched chat input.
func (m *Metrics) RecordDispatch(template string) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(template).Inc()
}

// RecordReply counts one delivered assistant reply.
func (m *Metrics) RecordReply() {
	if m == nil {
		return
	}
	m.RepliesDelivered.Inc()
}

// RecordRateLimited counts one rejected send.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

// SetActiveSessions updates the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// RecordRPC records one chain RPC call.
func (m *Metrics) RecordRPC(method string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RPCRequestsTotal.WithLabelValues(method, status).Inc()
	m.RPCRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordPlaceholderBalance counts one placeholder balance answer.
func (m *Metrics) RecordPlaceholderBalance() {
	if m == nil {
		return
	}
	m.PlaceholderBalance.Inc()
}

// RecordUploadStarted counts one started upload.
func (m *Metrics) RecordUploadStarted() {
	if m == nil {
		return
	}
	m.UploadsStarted.Inc()
}

// RecordUploadFinished counts one finished upload.
func (m *Metrics) RecordUploadFinished() {
	if m == nil {
		return
	}
	m.UploadsFinished.Inc()
}

// Middleware records request counts and latency keyed by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
