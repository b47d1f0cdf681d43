package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/insights/analyzer"
)

type failingMeasurer struct{}

func (failingMeasurer) Measure(context.Context, string) (*analyzer.MeasurementReport, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestObserverCountsFallbacks(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := analyzer.New(analyzer.WithSiteMeasurer(failingMeasurer{}), analyzer.WithObserver(m))

	res, err := e.AnalyzeURL(context.Background(), "https://example.com")
	require.NoError(t, err)
	m.ObserveAnalysis(analyzer.InputURL, res.Source, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveFailuresTotal.WithLabelValues("url", "transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("url", "attempting", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("url", "simulated", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("url", "simulated")))
}

func TestSeparateRegistries(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.ObserveHTTP("GET", "/api/health", "200", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200")))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
