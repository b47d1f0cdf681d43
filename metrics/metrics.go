package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/seo-optimizer/insights/analyzer"
)

const namespace = "insights"

// Metrics holds all Prometheus metrics for the service. It implements
// analyzer.Observer.
type Metrics struct {
	AnalysesTotal       *prometheus.CounterVec
	LiveFailuresTotal   *prometheus.CounterVec
	TransitionsTotal    *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the metrics on reg. Use prometheus.DefaultRegisterer in the
// server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "The total number of analyses by input kind and result source.",
		}, []string{"kind", "source"}),
		LiveFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_failures_total",
			Help:      "Live collaborator failures that fell back to simulation.",
		}, []string{"kind", "reason"}),
		TransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_transitions_total",
			Help:      "Adapter state transitions.",
		}, []string{"kind", "from", "to"}),
		AnalysisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analyses including any live attempt.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"kind", "source"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Transition implements analyzer.Observer
func (m *Metrics) Transition(kind analyzer.InputKind, from, to analyzer.State) {
	m.TransitionsTotal.WithLabelValues(string(kind), from.String(), to.String()).Inc()
}

// LiveFailure implements analyzer.Observer
func (m *Metrics) LiveFailure(f *analyzer.LiveAdapterFailure) {
	m.LiveFailuresTotal.WithLabelValues(string(f.Kind), string(f.Reason)).Inc()
}

// ObserveAnalysis records a finished analysis
func (m *Metrics) ObserveAnalysis(kind analyzer.InputKind, source analyzer.Source, d time.Duration) {
	m.AnalysesTotal.WithLabelValues(string(kind), string(source)).Inc()
	m.AnalysisDuration.WithLabelValues(string(kind), string(source)).Observe(d.Seconds())
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}
