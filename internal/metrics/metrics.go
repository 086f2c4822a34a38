// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_rate_limited_total",
			Help: "Requests rejected by the rate limiter by route",
		},
		[]string{"route"},
	)

	// Email metrics
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_emails_sent_total",
			Help: "Outbound emails by kind (campaign, bulk, test) and result",
		},
		[]string{"kind", "result"},
	)

	DispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadflow_campaign_dispatch_duration_seconds",
			Help:    "Time taken to dispatch a campaign in seconds",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
		},
	)

	// Lead capture metrics
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_form_submissions_total",
			Help: "Landing page form submissions by outcome (created, updated)",
		},
		[]string{"outcome"},
	)

	PageViews = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadflow_page_views_total",
			Help: "Public landing page views",
		},
	)

	ContactsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_contacts_imported_total",
			Help: "CSV import rows by result (created, updated, failed)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(FormSubmissions)
	prometheus.MustRegister(PageViews)
	prometheus.MustRegister(ContactsImported)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time on h
func (t *Timer) ObserveDuration(h prometheus.Observer) time.Duration {
	d := time.Since(t.start)
	h.Observe(d.Seconds())
	return d
}

// RecordEmail counts one send outcome
func RecordEmail(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EmailsSent.WithLabelValues(kind, result).Inc()
}
