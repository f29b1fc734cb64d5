package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics records per-route request counts and latencies.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	httpOnce     sync.Once
	httpInstance *HTTPMetrics
)

func NewHTTPMetrics() *HTTPMetrics {
	httpOnce.Do(func() {
		httpInstance = &HTTPMetrics{
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ledgerline_http_requests_total",
				Help: "HTTP requests by route and status.",
			}, []string{"method", "route", "status"}),
			duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "ledgerline_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "route"}),
		}
	})
	return httpInstance
}

// GinMiddleware instruments every request handled by the engine.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
