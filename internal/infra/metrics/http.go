package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(httpRequests, httpDurationMs, wsConnections)
}

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	httpDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000, 30000},
		},
		[]string{"route"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Currently open WebSocket connections.",
		},
	)
)

func ObserveHTTP(route string, code int, durationMs float64) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpDurationMs.WithLabelValues(route).Observe(durationMs)
}

func WSConnOpened() { wsConnections.Inc() }
func WSConnClosed() { wsConnections.Dec() }
