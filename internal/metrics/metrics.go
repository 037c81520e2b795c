// Package metrics provides Prometheus metrics for gatehouse.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gatehouse"

// Root flag actions.
const (
	ActionSet   = "set"
	ActionUnset = "unset"
)

// Redirect cookie events.
const (
	RedirectStored    = "stored"
	RedirectConsumed  = "consumed"
	RedirectDiscarded = "discarded"
)

// Metrics holds the collectors registered on one registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rootFlagChanges   *prometheus.CounterVec
	demotionsRejected prometheus.Counter
	redirectCookies   *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New registers the gatehouse collectors, plus the Go and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rootFlagChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "root_flag_changes_total",
				Help:      "Total number of root flag changes",
			},
			[]string{"action"},
		),
		demotionsRejected: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "root_demotions_rejected_total",
				Help:      "Total number of root demotions rejected because no other root would remain",
			},
		),
		redirectCookies: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redirect_cookie_events_total",
				Help:      "Total number of post-login redirect cookie events",
			},
			[]string{"event"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// RecordRootFlagChange records a successful set or unset of the root flag.
func (m *Metrics) RecordRootFlagChange(action string) {
	if m == nil {
		return
	}
	m.rootFlagChanges.WithLabelValues(action).Inc()
}

// RecordDemotionRejected records a demotion refused to keep the last root.
func (m *Metrics) RecordDemotionRejected() {
	if m == nil {
		return
	}
	m.demotionsRejected.Inc()
}

// RecordRedirectCookie records a redirect cookie event.
func (m *Metrics) RecordRedirectCookie(event string) {
	if m == nil {
		return
	}
	m.redirectCookies.WithLabelValues(event).Inc()
}

// ObserveRequest records one served request. route is the matched ServeMux pattern.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
