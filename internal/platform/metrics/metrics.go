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
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evac",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evac",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	// Outcome of each safest-route computation, labelled by result
	// ("ok" or the failure kind).
	SafestRouteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evac",
		Subsystem: "routing",
		Name:      "safest_route_outcomes_total",
		Help:      "Safest-route requests by outcome",
	}, []string{"result"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evac",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Latency of external provider calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider", "outcome"})

	FireFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evac",
		Subsystem: "fires",
		Name:      "fetch_errors_total",
		Help:      "Total failed fire-data fetches",
	}, []string{"provider"})

	FireCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evac",
		Subsystem: "fires",
		Name:      "cache_lookups_total",
		Help:      "Fire snapshot cache lookups by result",
	}, []string{"result"})
)

// ObserveProvider records the latency of one external call started at start.
func ObserveProvider(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request metrics. pattern is the registered route so
// label cardinality stays bounded.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
