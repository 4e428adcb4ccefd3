package succinct

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/succinct/internal/mmap"
	"github.com/hupe1980/succinct/internal/popcount"
	"github.com/hupe1980/succinct/persistence"
	"github.com/hupe1980/succinct/trie"
)

// Dictionary is an immutable set of keys with dense ids, backed by a
// LOUDS trie. It is safe for concurrent readers.
//
// Dictionaries opened from a mapping or a blob hold that resource until
// Close. Query methods panic with ErrClosed after Close.
type Dictionary struct {
	t    atomic.Pointer[trie.Trie]
	opts options

	source      string
	mapped      bool
	compression persistence.Compression
	size        int64

	closer    io.Closer
	release   func()
	closeOnce sync.Once
	closeErr  error
}

func newDictionary(t *trie.Trie, o options, source string) *Dictionary {
	d := &Dictionary{opts: o, source: source}
	d.t.Store(t)
	return d
}

// Build creates a dictionary from keys. Duplicates are dropped and the
// input slice is not modified.
func Build(keys []string, opts ...Option) (*Dictionary, error) {
	o := applyOptions(opts)
	ctx := context.Background()

	start := time.Now()
	t, err := trie.Build(keys, trie.WithTailTrie(o.tailTrie), trie.WithLogger(o.logger.Logger))
	elapsed := time.Since(start)
	if err != nil {
		o.metricsCollector.RecordBuild(len(keys), elapsed, err)
		o.logger.LogBuild(ctx, len(keys), 0, elapsed, err)
		return nil, err
	}
	o.metricsCollector.RecordBuild(t.Len(), elapsed, nil)
	o.logger.LogBuild(ctx, t.Len(), t.Stats().Nodes, elapsed, nil)
	return newDictionary(t, o, "memory"), nil
}

// decode turns an envelope payload into a trie that borrows raw.
func decode(h persistence.Header, raw []byte) (*trie.Trie, error) {
	if err := h.Expect(persistence.KindTrie); err != nil {
		return nil, err
	}
	t, n, err := trie.Map(raw)
	if err != nil {
		return nil, err
	}
	if n != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", trie.ErrFormat, len(raw)-n)
	}
	return t, nil
}

// Load reads an envelope from r.
func Load(r io.Reader, opts ...Option) (*Dictionary, error) {
	return loadFrom(context.Background(), "reader", r, applyOptions(opts))
}

func loadFrom(ctx context.Context, source string, r io.Reader, o options) (*Dictionary, error) {
	start := time.Now()
	h, raw, err := persistence.ReadEnvelope(r)
	var t *trie.Trie
	if err == nil {
		t, err = decode(h, raw)
	}
	o.metricsCollector.RecordLoad(int64(h.Size()), false, time.Since(start), err)
	o.logger.LogLoad(ctx, source, int64(h.Size()), false, err)
	if err != nil {
		return nil, translateError(source, err)
	}

	d := newDictionary(t, o, source)
	d.compression, d.size = h.Compression, int64(h.Size())
	return d, nil
}

// FromBytes opens the envelope at the start of b. Uncompressed
// dictionaries borrow b, which must stay unmodified while the dictionary
// is in use.
func FromBytes(b []byte, opts ...Option) (*Dictionary, error) {
	return fromBytes(context.Background(), "bytes", b, applyOptions(opts))
}

func fromBytes(ctx context.Context, source string, b []byte, o options) (*Dictionary, error) {
	start := time.Now()
	h, raw, err := persistence.OpenEnvelope(b)
	var t *trie.Trie
	if err == nil {
		t, err = decode(h, raw)
	}
	mapped := err == nil && h.Compression == persistence.CompressionNone
	o.metricsCollector.RecordLoad(int64(h.Size()), mapped, time.Since(start), err)
	o.logger.LogLoad(ctx, source, int64(h.Size()), mapped, err)
	if err != nil {
		return nil, translateError(source, err)
	}

	d := newDictionary(t, o, source)
	d.mapped, d.compression, d.size = mapped, h.Compression, int64(h.Size())
	return d, nil
}

// OpenFile memory-maps path. Uncompressed dictionaries are queried in
// place and keep the mapping until Close; compressed ones are inflated
// and the mapping is released right away.
func OpenFile(path string, opts ...Option) (*Dictionary, error) {
	o := applyOptions(opts)
	m, err := mmap.Open(path)
	if err != nil {
		err = translateError(path, err)
		o.logger.LogLoad(context.Background(), path, 0, true, err)
		return nil, err
	}

	d, err := fromBytes(context.Background(), path, m.Bytes(), o)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if !d.mapped {
		_ = m.Close()
		return d, nil
	}
	_ = m.Advise(mmap.AccessRandom)
	d.closer = m
	return d, nil
}

// Save writes the dictionary as an envelope using the compression and
// checksum options the dictionary was created with.
func (d *Dictionary) Save(w io.Writer) (int64, error) {
	start := time.Now()
	n, err := persistence.WriteEnvelope(w, persistence.KindTrie, d.trie(), d.opts.writerOptions())
	d.opts.metricsCollector.RecordSave(n, time.Since(start), err)
	return n, err
}

// SaveFile writes the dictionary to path atomically.
func (d *Dictionary) SaveFile(path string) error {
	var n int64
	err := persistence.SaveToFile(path, func(w io.Writer) error {
		var err error
		n, err = persistence.WriteEnvelope(w, persistence.KindTrie, d.trie(), d.opts.writerOptions())
		return err
	})
	d.opts.logger.LogSave(context.Background(), path, n, err)
	d.opts.metricsCollector.RecordSave(n, 0, err)
	return err
}

// MarshalBinary returns the envelope bytes.
func (d *Dictionary) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(d.trie().SizeInBytes()) + persistence.HeaderSize)
	if _, err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases the mapping or blob behind the dictionary. It is
// idempotent.
func (d *Dictionary) Close() error {
	d.closeOnce.Do(func() {
		d.t.Store(nil)
		if d.closer != nil {
			d.closeErr = d.closer.Close()
		}
		if d.release != nil {
			d.release()
		}
	})
	return d.closeErr
}

// Closed reports whether Close has been called.
func (d *Dictionary) Closed() bool { return d.t.Load() == nil }

func (d *Dictionary) trie() *trie.Trie {
	t := d.t.Load()
	if t == nil {
		panic(ErrClosed)
	}
	return t
}

// Trie exposes the underlying trie. It shares the dictionary's lifetime.
func (d *Dictionary) Trie() *trie.Trie { return d.trie() }

// Len returns the number of keys.
func (d *Dictionary) Len() int { return d.trie().Len() }

func (d *Dictionary) observe(op string, start time.Time, results int) {
	d.opts.metricsCollector.RecordQuery(op, results, time.Since(start))
	d.opts.logger.LogQuery(context.Background(), op, results)
}

// Lookup returns the id of key.
func (d *Dictionary) Lookup(key string) (trie.ID, bool) {
	start := time.Now()
	id, ok := d.trie().Lookup(key)
	n := 0
	if ok {
		n = 1
	}
	d.observe(OpLookup, start, n)
	return id, ok
}

// Contains reports whether key is in the dictionary.
func (d *Dictionary) Contains(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

// Key returns the key with the given id.
func (d *Dictionary) Key(id trie.ID) (string, bool) {
	start := time.Now()
	key, ok := d.trie().DecodeKey(id)
	n := 0
	if ok {
		n = 1
	}
	d.observe(OpDecode, start, n)
	return key, ok
}

// CommonPrefixes returns the keys that are prefixes of s, shortest
// first. limit <= 0 means no limit.
func (d *Dictionary) CommonPrefixes(s string, limit int) []trie.Match {
	start := time.Now()
	out := d.trie().CommonPrefixMatches(s, limit)
	d.observe(OpCommonPrefix, start, len(out))
	return out
}

// Predictive returns the ids of keys starting with prefix in
// lexicographic order. limit <= 0 means no limit.
func (d *Dictionary) Predictive(prefix string, limit int) []trie.ID {
	start := time.Now()
	out := d.trie().PredictiveSearch(prefix, limit)
	d.observe(OpPredictive, start, len(out))
	return out
}

// PredictiveKeys is Predictive returning the keys themselves.
func (d *Dictionary) PredictiveKeys(prefix string, limit int) []string {
	t := d.trie()
	ids := d.Predictive(prefix, limit)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i], _ = t.DecodeKey(id)
	}
	return keys
}

// PredictiveSet returns the ids of keys starting with prefix as a
// bitmap, ready for intersection with other id sets.
func (d *Dictionary) PredictiveSet(prefix string) *roaring.Bitmap {
	start := time.Now()
	bm := roaring.New()
	for id := range d.trie().Predictive(prefix) {
		bm.Add(uint32(id))
	}
	d.observe(OpPredictive, start, int(bm.GetCardinality()))
	return bm
}

// All iterates over (id, key) pairs in lexicographic key order. Ids follow
// breadth-first node order, so they are not ascending in general.
func (d *Dictionary) All() iter.Seq2[trie.ID, string] { return d.trie().All() }

// Stats describes a dictionary.
type Stats struct {
	trie.Stats
	Source       string
	Mapped       bool
	Compression  persistence.Compression
	EnvelopeSize int64

	// PopcountKernel names the population-count implementation in use.
	PopcountKernel string
	// HardwarePopcount reports whether the CPU has a popcount instruction.
	HardwarePopcount bool
}

// Stats returns sizes and provenance.
func (d *Dictionary) Stats() Stats {
	return Stats{
		Stats:        d.trie().Stats(),
		Source:       d.source,
		Mapped:       d.mapped,
		Compression:  d.compression,
		EnvelopeSize: d.size,

		PopcountKernel:   popcount.Active().String(),
		HardwarePopcount: popcount.Hardware(),
	}
}
