package succinct

import (
	"log/slog"

	"github.com/hupe1980/succinct/persistence"
	"github.com/hupe1980/succinct/resource"
)

type options struct {
	tailTrie         bool
	logger           *Logger
	metricsCollector MetricsCollector
	compression      persistence.Compression
	compressionLevel int
	checksum         bool
	controller       *resource.Controller
}

// Option configures building, loading, saving and catalogs.
type Option func(*options)

// WithTailTrie stores key suffixes in a nested trie over the reversed
// tails. This usually shrinks dictionaries with shared suffixes at some
// cost in DecodeKey speed.
func WithTailTrie(enabled bool) Option {
	return func(o *options) {
		o.tailTrie = enabled
	}
}

// WithMetricsCollector enables metrics collection.
//
// Example:
//
//	metrics := &succinct.BasicMetricsCollector{}
//	dict, _ := succinct.Build(keys, succinct.WithMetricsCollector(metrics))
//	fmt.Println(metrics.GetStats().BuildKeys)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel is shorthand for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCompression selects the codec used when saving. Compressed
// dictionaries are inflated into memory on load instead of being mapped.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCompressionLevel sets the zstd level used with CompressionZstd.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.compressionLevel = level
	}
}

// WithChecksum controls whether saved envelopes carry a CRC32C.
// Enabled by default.
func WithChecksum(enabled bool) Option {
	return func(o *options) {
		o.checksum = enabled
	}
}

// WithResourceController bounds memory, load concurrency and transfer
// rate of a Catalog.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		checksum:         true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) writerOptions() persistence.WriterOptions {
	return persistence.WriterOptions{
		Compression: o.compression,
		Level:       o.compressionLevel,
		Checksum:    o.checksum,
	}
}
