// Package metrics provides Prometheus instrumentation for the bet engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BetsPlaced counts placed bets, partitioned by prediction side.
	BetsPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "updown_bets_placed_total",
		Help: "Total number of bets placed",
	}, []string{"prediction"})

	// BetsResolved counts resolved bets, partitioned by outcome.
	BetsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "updown_bets_resolved_total",
		Help: "Total number of bets resolved",
	}, []string{"outcome"})

	// StakeVolume accumulates the stake value placed, by prediction side.
	StakeVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "updown_stake_volume_total",
		Help: "Cumulative stake volume placed",
	}, []string{"prediction"})

	// RiskRejections counts placements rejected by the daily risk pool.
	RiskRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "updown_risk_rejections_total",
		Help: "Bets rejected by the daily exposure cap",
	})

	// HouseBalance tracks the house's retained fees and forfeited stakes.
	HouseBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "updown_house_balance",
		Help: "Current house balance",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "updown_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "updown_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "updown_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
