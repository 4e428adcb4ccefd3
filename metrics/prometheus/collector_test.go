package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/succinct"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counter(f *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range f.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if v, ok := labels[lp.GetName()]; ok && v != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.RecordBuild(10, time.Millisecond, nil)
	c.RecordBuild(5, time.Millisecond, errors.New("boom"))
	c.RecordLoad(100, true, time.Millisecond, nil)
	c.RecordLoad(50, false, time.Millisecond, nil)
	c.RecordSave(70, time.Millisecond, nil)
	c.RecordQuery(succinct.OpLookup, 1, time.Microsecond)
	c.RecordQuery(succinct.OpLookup, 0, time.Microsecond)

	families := gather(t, reg)

	ops := families["succinct_operations_total"]
	require.NotNil(t, ops)
	assert.Equal(t, 1.0, counter(ops, map[string]string{"op": "build", "status": "success"}))
	assert.Equal(t, 1.0, counter(ops, map[string]string{"op": "build", "status": "error"}))
	assert.Equal(t, 2.0, counter(ops, map[string]string{"op": succinct.OpLookup, "status": "success"}))

	assert.Equal(t, 10.0, families["succinct_build_keys_total"].GetMetric()[0].GetCounter().GetValue())

	bytes := families["succinct_envelope_bytes_total"]
	assert.Equal(t, 100.0, counter(bytes, map[string]string{"op": "load", "mode": "mapped"}))
	assert.Equal(t, 50.0, counter(bytes, map[string]string{"op": "load", "mode": "copied"}))
	assert.Equal(t, 70.0, counter(bytes, map[string]string{"op": "save"}))

	results := families["succinct_query_results"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), results.GetSampleCount())
	assert.Equal(t, 1.0, results.GetSampleSum())
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)

	assert.Panics(t, func() { MustNewCollector(reg) })
}

func TestCollectorWithDictionary(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNewCollector(reg)

	d, err := succinct.Build([]string{"a", "ab", "abc"}, succinct.WithMetricsCollector(c))
	require.NoError(t, err)
	defer d.Close()

	d.Predictive("a", 0)

	families := gather(t, reg)
	assert.Equal(t, 3.0, families["succinct_build_keys_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, counter(families["succinct_operations_total"], map[string]string{"op": succinct.OpPredictive}))
}
