package persistence

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawPayload []byte

func (p rawPayload) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p)
	return int64(n), err
}

func (p rawPayload) SizeInBytes() int64 { return int64(len(p)) }

func sparseVector(t *testing.T, n int) *bitvector.BitVector {
	t.Helper()
	b := bitvector.NewBuilder(uint64(n))
	for i := 0; i < n; i += 1013 {
		b.Set(uint64(i), true)
	}
	return b.Build(bitvector.WithSelect1(), bitvector.WithSelect0())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	bv := sparseVector(t, 200_000)

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, checksum := range []bool{false, true} {
			t.Run(comp.String(), func(t *testing.T) {
				var buf bytes.Buffer
				n, err := WriteEnvelope(&buf, KindBitVector, bv, WriterOptions{Compression: comp, Checksum: checksum})
				require.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), n)

				h, raw, err := ReadEnvelope(bytes.NewReader(buf.Bytes()))
				require.NoError(t, err)
				assert.Equal(t, KindBitVector, h.Kind)
				assert.Equal(t, comp, h.Compression, "sparse vectors compress well")
				assert.Equal(t, uint64(bv.SizeInBytes()), h.RawLen)
				assert.Equal(t, checksum, h.Flags&FlagChecksum != 0)
				require.NoError(t, h.Expect(KindBitVector))

				got, err := bitvector.Load(bytes.NewReader(raw))
				require.NoError(t, err)
				assert.Equal(t, bv.Ones(), got.Ones())
				want, wantOK := bv.Select1(100)
				pos, ok := got.Select1(100)
				assert.Equal(t, wantOK, ok)
				assert.Equal(t, want, pos)

				h2, view, err := OpenEnvelope(buf.Bytes())
				require.NoError(t, err)
				assert.Equal(t, h, h2)
				assert.Equal(t, raw, view)
			})
		}
	}
}

func TestIncompressiblePayloadStoredRaw(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	data := make([]byte, 64<<10)
	for i := range data {
		data[i] = byte(rng.Uint32())
	}

	for _, comp := range []Compression{CompressionLZ4, CompressionZstd} {
		var buf bytes.Buffer
		_, err := WriteEnvelope(&buf, KindTrie, rawPayload(data), WriterOptions{Compression: comp, Checksum: true})
		require.NoError(t, err)

		h, raw, err := OpenEnvelope(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, CompressionNone, h.Compression)
		assert.Equal(t, data, raw)
	}
}

func TestOpenEnvelopeAliasesUncompressedPayload(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteEnvelope(&buf, KindWavelet, rawPayload("payload!"), WriterOptions{})
	require.NoError(t, err)

	b := buf.Bytes()
	_, raw, err := OpenEnvelope(b)
	require.NoError(t, err)
	assert.Same(t, &b[HeaderSize], &raw[0])
}

func TestEnvelopeEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteEnvelope(&buf, KindTrie, rawPayload(nil), WriterOptions{Compression: CompressionZstd, Checksum: true})
	require.NoError(t, err)
	assert.Equal(t, HeaderSize, buf.Len())

	h, raw, err := ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Zero(t, h.RawLen)
	assert.Empty(t, raw)
}

func TestEnvelopeErrors(t *testing.T) {
	var good bytes.Buffer
	_, err := WriteEnvelope(&good, KindTrie, rawPayload("abcdefgh"), WriterOptions{Checksum: true})
	require.NoError(t, err)

	corrupt := func(off int, v byte) []byte {
		b := bytes.Clone(good.Bytes())
		b[off] = v
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", good.Bytes()[:10], ErrTruncated},
		{"short payload", good.Bytes()[:HeaderSize+3], ErrTruncated},
		{"magic", corrupt(0, 'X'), ErrInvalidMagic},
		{"version", corrupt(4, 9), ErrInvalidVersion},
		{"kind", corrupt(6, 0), ErrInvalidKind},
		{"compression", corrupt(7, 7), ErrUnknownCompression},
		{"raw length", corrupt(24, 9), ErrSizeMismatch},
		{"payload bit flip", corrupt(HeaderSize+2, 'z'), ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := OpenEnvelope(tt.data)
			assert.ErrorIs(t, err, tt.want)
			_, _, err = ReadEnvelope(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err = OpenEnvelope(corrupt(HeaderSize, 'q'))
	assert.True(t, IsChecksumMismatch(err))

	h, _, err := OpenEnvelope(good.Bytes())
	require.NoError(t, err)
	assert.ErrorIs(t, h.Expect(KindWavelet), ErrInvalidKind)

	_, err = WriteEnvelope(io.Discard, Kind(42), rawPayload("x"), WriterOptions{})
	assert.ErrorIs(t, err, ErrInvalidKind)
	_, err = WriteEnvelope(io.Discard, KindTrie, rawPayload("x"), WriterOptions{Compression: 9})
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestSaveEnvelopeAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bits.sds")
	bv := sparseVector(t, 10_000)

	require.NoError(t, SaveEnvelope(path, KindBitVector, bv, WriterOptions{Compression: CompressionLZ4, Checksum: true}))

	h, raw, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindBitVector, h.Kind)
	got, err := bitvector.Load(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, bv.Ones(), got.Ones())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be renamed away")
}

func TestSaveToFileFailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.sds")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := SaveToFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return io.ErrShortWrite
	})
	require.ErrorIs(t, err, io.ErrShortWrite)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSliceReader(t *testing.T) {
	r := NewSliceReader([]byte{1, 2, 0, 3, 0, 0, 0})
	v8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v8)
	v16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v16)
	v32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v32)
	assert.Equal(t, 7, r.Offset())
	assert.Zero(t, r.Len())
	_, err = r.ReadUint64()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestChecksumReaderWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	_, err := cw.Write([]byte("abcde"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), cw.Written())

	cr := NewChecksumReader(&buf)
	_, err = io.ReadAll(cr)
	require.NoError(t, err)
	require.NoError(t, cr.Verify(cw.Sum()))
	assert.ErrorIs(t, cr.Verify(cw.Sum()+1), ErrChecksum)
}
