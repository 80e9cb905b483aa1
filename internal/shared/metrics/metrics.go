package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverletter",
			Name:      "generation_requests_total",
			Help:      "Cover letter generation requests by outcome.",
		},
		[]string{"outcome"},
	)
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coverletter",
			Name:      "generation_duration_seconds",
			Help:      "Time spent waiting on the generation provider.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
	ExtractionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverletter",
			Name:      "resume_extraction_failures_total",
			Help:      "Résumé text extraction failures by file format.",
		},
		[]string{"format"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverletter",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coverletter",
			Name:      "rate_limit_rejected_total",
			Help:      "Requests rejected by limiter type.",
		},
		[]string{"limiter"},
	)
)

// Registry holds the service collectors. It is separate from the global default
// registry so tests can build several routers in one process.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(GenerationRequests, GenerationDuration, ExtractionFailures, HTTPRequests, RateLimitRejected)
	return reg
}

// ObserveGeneration records one generation attempt.
func ObserveGeneration(outcome string, elapsed time.Duration) {
	GenerationRequests.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		GenerationDuration.Observe(elapsed.Seconds())
	}
}

// IncExtractionFailure counts a résumé that produced no text.
func IncExtractionFailure(format string) {
	if format == "" {
		format = "unknown"
	}
	ExtractionFailures.WithLabelValues(format).Inc()
}

// Middleware counts requests by matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
