package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "route"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	ordersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders committed.",
		},
	)

	orderPlacementFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_placement_failures_total",
			Help: "Order placements that rolled back, by error code.",
		},
		[]string{"code"},
	)

	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_order_total_amount",
			Help:    "Total amount of committed orders.",
			Buckets: []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		},
	)

	confirmationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_confirmation_emails_total",
			Help: "Order confirmation emails by outcome.",
		},
		[]string{"status"},
	)
)

func RecordOrderPlaced(total float64) {
	ordersPlacedTotal.Inc()
	orderValue.Observe(total)
}

func RecordOrderFailure(code string) {
	orderPlacementFailures.WithLabelValues(code).Inc()
}

func RecordConfirmationEmail(status string) {
	confirmationEmails.WithLabelValues(status).Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware must wrap the ServeMux directly: the route pattern is read
// from the request after the mux has matched it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		httpRequestsTotal.WithLabelValues(strconv.Itoa(rec.status), r.Method, route).Inc()
		httpRequestsDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routeLabel keeps label cardinality bounded: unmatched paths share one label.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}

	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}

	return r.Pattern
}

func Handler() http.Handler {
	return promhttp.Handler()
}
