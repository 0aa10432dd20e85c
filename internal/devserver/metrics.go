package devserver

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bekirdag/jobdesk/internal/job"
)

// Metrics records request and job-store activity. Registration errors are
// logged and never propagated.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mutationsTotal  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobsd_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobsd_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobsd_job_mutations_total",
			Help: "Total number of successful job mutations by kind and resulting status.",
		}, []string{"kind", "status"}),
	}
	m.register(reg, m.requestsTotal, "jobsd_http_requests_total")
	m.register(reg, m.requestDuration, "jobsd_http_request_duration_seconds")
	m.register(reg, m.mutationsTotal, "jobsd_job_mutations_total")
	return m
}

func (m *Metrics) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		slog.Warn("metrics: failed to register collector", "name", name, "error", err)
	}
}

// Middleware observes every request. Unmatched routes are labelled
// "unmatched" to keep the label set bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) jobCreated(status job.Status) {
	m.mutationsTotal.WithLabelValues("create", string(status)).Inc()
}

func (m *Metrics) jobStatusChanged(status job.Status) {
	m.mutationsTotal.WithLabelValues("status", string(status)).Inc()
}

func (m *Metrics) jobDeleted() {
	m.mutationsTotal.WithLabelValues("delete", "").Inc()
}
