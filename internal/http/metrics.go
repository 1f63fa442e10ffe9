package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	expensesTotal   prometheus.Counter
	sheetsComputed  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"pattern", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripsplit_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pattern"}),
		expensesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_expenses_recorded_total",
			Help: "Expenses successfully recorded.",
		}),
		sheetsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_balance_sheets_computed_total",
			Help: "Balance sheets successfully computed.",
		}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per chi route pattern.
// The pattern, not the raw path, keeps trip ids out of the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		m.requestsTotal.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
