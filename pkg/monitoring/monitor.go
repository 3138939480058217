package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TutorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_requests_total",
			Help: "Tutoring pipeline runs by detected subject",
		},
		[]string{"subject"},
	)

	TutorFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_fallbacks_total",
			Help: "Tutoring pipeline runs that ended in the canned fallback",
		},
		[]string{"cause"},
	)

	ModelCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tutor_model_call_duration_seconds",
			Help:    "Wall-clock duration of upstream model calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(TutorRequests)
	prometheus.MustRegister(TutorFallbacks)
	prometheus.MustRegister(ModelCallDuration)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
