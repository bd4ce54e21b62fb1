package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimitDenials    *prometheus.CounterVec
	TemplateOperations  *prometheus.CounterVec
	AnalyzeLatency      prometheus.Histogram
	EmailsSent          *prometheus.CounterVec
	WebhookDeliveries   *prometheus.CounterVec
}

// NewMetrics creates the Prometheus metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates the metrics on a caller-provided registry.
// Tests use this to avoid duplicate registration on the default registry.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receiptforge_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "receiptforge_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receiptforge_rate_limit_denials_total",
				Help: "Total number of requests denied by the rate limiter.",
			},
			[]string{"route"},
		),
		TemplateOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receiptforge_template_operations_total",
				Help: "Total number of template operations.",
			},
			[]string{"operation", "result"},
		),
		AnalyzeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "receiptforge_analyze_latency_seconds",
				Help:    "Latency of AI receipt analysis calls.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		EmailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receiptforge_emails_sent_total",
				Help: "Total number of transactional emails sent.",
			},
			[]string{"result"},
		),
		WebhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receiptforge_webhook_deliveries_total",
				Help: "Total number of inbound webhook deliveries.",
			},
			[]string{"result"},
		),
	}
}

// RecordHTTPRequest records metrics for one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimitDenial records a denied admission check.
func (m *Metrics) RecordRateLimitDenial(route string) {
	m.RateLimitDenials.WithLabelValues(route).Inc()
}

// RecordTemplateOperation records a template CRUD or section edit outcome.
func (m *Metrics) RecordTemplateOperation(operation, result string) {
	m.TemplateOperations.WithLabelValues(operation, result).Inc()
}

// RecordAnalyze records the latency of one AI analysis call.
func (m *Metrics) RecordAnalyze(duration time.Duration) {
	m.AnalyzeLatency.Observe(duration.Seconds())
}

// RecordEmail records an email send outcome.
func (m *Metrics) RecordEmail(result string) {
	m.EmailsSent.WithLabelValues(result).Inc()
}

// RecordWebhookDelivery records an inbound webhook outcome.
func (m *Metrics) RecordWebhookDelivery(result string) {
	m.WebhookDeliveries.WithLabelValues(result).Inc()
}
