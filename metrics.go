package succinct

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics.
// Implement it to feed a monitoring system; metrics/prometheus ships a
// Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each dictionary build.
	RecordBuild(keys int, duration time.Duration, err error)

	// RecordLoad is called after a dictionary is loaded or mapped.
	// bytes is the envelope size.
	RecordLoad(bytes int64, mapped bool, duration time.Duration, err error)

	// RecordSave is called after a dictionary is written or published.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordQuery is called after each query. op names the query kind,
	// results is the number of ids or keys returned.
	RecordQuery(op string, results int, duration time.Duration)
}

// Query kinds passed to RecordQuery.
const (
	OpLookup       = "lookup"
	OpDecode       = "decode"
	OpCommonPrefix = "common_prefix"
	OpPredictive   = "predictive"
)

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordLoad(int64, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)       {}
func (NoopMetricsCollector) RecordQuery(string, int, time.Duration)       {}

// BasicMetricsCollector counts operations in memory.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildKeys       atomic.Int64
	BuildTotalNanos atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadMapped      atomic.Int64
	LoadBytes       atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveBytes       atomic.Int64
	QueryCount      atomic.Int64
	QueryResults    atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(keys int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildKeys.Add(int64(keys))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, mapped bool, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
	if mapped {
		b.LoadMapped.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, results int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryResults.Add(int64(results))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		BuildKeys:     b.BuildKeys.Load(),
		BuildAvgNanos: avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadMapped:    b.LoadMapped.Load(),
		LoadBytes:     b.LoadBytes.Load(),
		SaveCount:     b.SaveCount.Load(),
		SaveErrors:    b.SaveErrors.Load(),
		SaveBytes:     b.SaveBytes.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryResults:  b.QueryResults.Load(),
		QueryAvgNanos: avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	BuildCount    int64
	BuildErrors   int64
	BuildKeys     int64
	BuildAvgNanos int64
	LoadCount     int64
	LoadErrors    int64
	LoadMapped    int64
	LoadBytes     int64
	SaveCount     int64
	SaveErrors    int64
	SaveBytes     int64
	QueryCount    int64
	QueryResults  int64
	QueryAvgNanos int64
}
