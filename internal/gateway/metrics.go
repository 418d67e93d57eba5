package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's collectors on a private registry so several
// servers can coexist in one process.
type metrics struct {
	registry    *prometheus.Registry
	detections  *prometheus.CounterVec
	chats       *prometheus.CounterVec
	rateLimited prometheus.Counter
	requests    *prometheus.HistogramVec
}

func newMetrics(connections func() float64) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetalk",
			Name:      "detections_total",
			Help:      "Detection requests by verdict (hate, safe, error).",
		}, []string{"verdict"}),
		chats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetalk",
			Name:      "avatar_chats_total",
			Help:      "Avatar chat requests by outcome (ok, error).",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safetalk",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP limiter.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "safetalk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	m.registry.MustRegister(
		m.detections,
		m.chats,
		m.rateLimited,
		m.requests,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "safetalk",
			Name:      "notification_connections",
			Help:      "Open notification WebSocket connections.",
		}, connections),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
