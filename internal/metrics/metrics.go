// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application metrics and registers them on construction.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration prometheus.Histogram
	logins       prometheus.Counter
	moodAppends  prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodify_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodify_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodify_logins_total",
			Help: "Completed Google logins.",
		}),
		moodAppends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodify_mood_entries_total",
			Help: "Mood entries appended.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.logins,
		c.moodAppends,
	)

	return c
}

// RecordLogin counts a completed login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordMoodAppend counts an appended mood entry.
func (c *Collector) RecordMoodAppend() {
	c.moodAppends.Inc()
}

// Middleware records the request count and duration for every request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		c.httpDuration.Observe(time.Since(start).Seconds())
		c.httpRequests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
