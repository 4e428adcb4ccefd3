// Package prometheus exports succinct metrics to Prometheus.
package prometheus

import (
	"time"

	"github.com/hupe1980/succinct"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "succinct"

// Collector implements succinct.MetricsCollector.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	ops          *prometheus.CounterVec
	buildKeys    prometheus.Counter
	bytes        *prometheus.CounterVec
	queryResults *prometheus.HistogramVec
}

var _ succinct.MetricsCollector = (*Collector)(nil)

// NewCollector creates a collector and registers it with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of dictionary operations.",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, .01, .1, 1, 10},
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total dictionary operations.",
		}, []string{"op", "status"}),
		buildKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_keys_total",
			Help:      "Total distinct keys in built dictionaries.",
		}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelope_bytes_total",
			Help:      "Envelope bytes loaded or saved.",
		}, []string{"op", "mode"}),
		queryResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Number of results per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.ops, c.buildKeys, c.bytes, c.queryResults} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics on registration errors.
func MustNewCollector(reg prometheus.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.ops.WithLabelValues(op, s).Inc()
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
}

// RecordBuild implements succinct.MetricsCollector.
func (c *Collector) RecordBuild(keys int, d time.Duration, err error) {
	c.observe("build", d, err)
	if err == nil {
		c.buildKeys.Add(float64(keys))
	}
}

// RecordLoad implements succinct.MetricsCollector.
func (c *Collector) RecordLoad(bytes int64, mapped bool, d time.Duration, err error) {
	c.observe("load", d, err)
	if err != nil {
		return
	}
	mode := "copied"
	if mapped {
		mode = "mapped"
	}
	c.bytes.WithLabelValues("load", mode).Add(float64(bytes))
}

// RecordSave implements succinct.MetricsCollector.
func (c *Collector) RecordSave(bytes int64, d time.Duration, err error) {
	c.observe("save", d, err)
	if err == nil {
		c.bytes.WithLabelValues("save", "written").Add(float64(bytes))
	}
}

// RecordQuery implements succinct.MetricsCollector.
func (c *Collector) RecordQuery(op string, results int, d time.Duration) {
	c.observe(op, d, nil)
	c.queryResults.WithLabelValues(op).Observe(float64(results))
}
