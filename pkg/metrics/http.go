package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks request counts and latency per route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, latency)
	return &HTTPMetrics{requests: requests, latency: latency}
}

// Observe records one finished request. Route should be the chi pattern, not the raw path.
func (h *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
