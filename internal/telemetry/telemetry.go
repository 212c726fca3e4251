// Package telemetry holds the Prometheus collectors of the service.
package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dailydiet"

var (
	// httpRequests counts served requests.
	// Labels: method, route (the matched route pattern), status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// mealOperations counts meal mutations by event name.
	mealOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "meals",
		Name:      "operations_total",
		Help:      "Total meal mutations by operation",
	}, []string{"operation"})

	userOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "users",
		Name:      "operations_total",
		Help:      "Total user mutations by operation",
	}, []string{"operation"})

	// cacheLookups counts metrics cache lookups.
	// Labels: result (hit, miss)
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metrics_cache",
		Name:      "lookups_total",
		Help:      "Metrics report cache lookups by result",
	}, []string{"result"})

	metricsComputation = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "metrics",
		Name:      "computation_seconds",
		Help:      "Time spent aggregating a metrics report",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)

// RecordMealOperation counts one meal mutation.
func RecordMealOperation(operation string) {
	mealOperations.WithLabelValues(operation).Inc()
}

// RecordUserOperation counts one user mutation.
func RecordUserOperation(operation string) {
	userOperations.WithLabelValues(operation).Inc()
}

// RecordCacheLookup counts a metrics cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveMetricsComputation records how long a report took to build.
func ObserveMetricsComputation(d time.Duration) {
	metricsComputation.Observe(d.Seconds())
}

// Middleware records count and latency of every request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		method := c.Method()

		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
