// Package metrics owns the Prometheus registry and the collectors the service records into
// every recording method is safe on a nil *Registry so tests and tools can skip metrics
package metrics

import (
	"net/http"
	"time"

	pstrings "rephraser/internal/platform/strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the private prometheus registry with the service collectors
type Registry struct {
	reg *prometheus.Registry

	moderations    *prometheus.CounterVec
	sentences      *prometheus.CounterVec
	revisions      *prometheus.CounterVec
	generatorTime  *prometheus.HistogramVec
	reports        *prometheus.CounterVec
	reportsDropped prometheus.Counter
	denylistTerms  prometheus.Gauge
	denylistLoads  *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// Options configures New
type Options struct {
	Namespace string
	// RuntimeCollectors adds the go and process collectors
	RuntimeCollectors bool
}

// New builds and registers all collectors on a fresh registry
func New(o Options) *Registry {
	ns := pstrings.Or(o.Namespace, "rephraser")
	r := &Registry{reg: prometheus.NewRegistry()}

	r.moderations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "moderations_total",
		Help: "Moderation requests by outcome.",
	}, []string{"outcome"})
	r.sentences = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "sentences_total",
		Help: "Sentences checked, split by whether a term matched.",
	}, []string{"flagged"})
	r.revisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "revisions_total",
		Help: "Flagged sentences revised, by method (rewrite or mask).",
	}, []string{"method"})
	r.generatorTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns, Name: "generator_duration_seconds",
		Help:    "Latency of generation service calls.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"outcome"})
	r.reports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "reports_total",
		Help: "Report writes by sink and outcome.",
	}, []string{"sink", "outcome"})
	r.reportsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "reports_dropped_total",
		Help: "Reports dropped because the write queue was full or closed.",
	})
	r.denylistTerms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns, Name: "denylist_terms",
		Help: "Terms in the active denylist.",
	})
	r.denylistLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "denylist_loads_total",
		Help: "Denylist loads by source and outcome.",
	}, []string{"source", "outcome"})
	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Subsystem: "http", Name: "requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"code", "method"})
	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"code", "method"})

	r.reg.MustRegister(
		r.moderations, r.sentences, r.revisions, r.generatorTime,
		r.reports, r.reportsDropped, r.denylistTerms, r.denylistLoads,
		r.httpRequests, r.httpDuration,
	)
	if o.RuntimeCollectors {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Handler serves the registry in the exposition format
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Gatherer exposes the registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// Middleware instruments handlers with request count and latency
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return promhttp.InstrumentHandlerDuration(r.httpDuration,
		promhttp.InstrumentHandlerCounter(r.httpRequests, next))
}

// Moderation counts one moderation request, outcome is ok or invalid
func (r *Registry) Moderation(outcome string) {
	if r == nil {
		return
	}
	r.moderations.WithLabelValues(outcome).Inc()
}

// Sentence counts one checked sentence
func (r *Registry) Sentence(flagged bool) {
	if r == nil {
		return
	}
	v := "false"
	if flagged {
		v = "true"
	}
	r.sentences.WithLabelValues(v).Inc()
}

// Revision counts one revised sentence by method
func (r *Registry) Revision(method string) {
	if r == nil {
		return
	}
	r.revisions.WithLabelValues(method).Inc()
}

// GeneratorCall observes one generation call
func (r *Registry) GeneratorCall(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.generatorTime.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

// ReportWrite counts one sink write
func (r *Registry) ReportWrite(sink string, err error) {
	if r == nil {
		return
	}
	r.reports.WithLabelValues(sink, outcome(err)).Inc()
}

// ReportDropped counts one report that never reached a sink
func (r *Registry) ReportDropped() {
	if r == nil {
		return
	}
	r.reportsDropped.Inc()
}

// DenylistSize sets the active term count
func (r *Registry) DenylistSize(n int) {
	if r == nil {
		return
	}
	r.denylistTerms.Set(float64(n))
}

// DenylistLoad counts one load attempt from source (file, http)
func (r *Registry) DenylistLoad(source string, err error) {
	if r == nil {
		return
	}
	r.denylistLoads.WithLabelValues(source, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
