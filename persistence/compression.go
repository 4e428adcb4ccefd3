package persistence

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the payload codec.
type Compression uint8

const (
	// CompressionNone stores the payload as is. Only uncompressed payloads
	// can be mapped without copying.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd.
	CompressionZstd Compression = 2
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" and "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

func (c Compression) valid() bool { return c <= CompressionZstd }

// A payload that shrinks by less than this fraction is stored raw.
const minSavings = 0.1

// lz4 cannot expand data by more than this factor.
const lz4MaxRatio = 255

var (
	zstdEncoders sync.Map // zstd.EncoderLevel -> *sync.Pool
	zstdDecoders = sync.Pool{New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		return dec
	}}
)

func zstdEncoderPool(level zstd.EncoderLevel) *sync.Pool {
	if p, ok := zstdEncoders.Load(level); ok {
		return p.(*sync.Pool)
	}
	p, _ := zstdEncoders.LoadOrStore(level, &sync.Pool{New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		return enc
	}})
	return p.(*sync.Pool)
}

// compress returns the stored form of raw and the codec actually used.
func compress(c Compression, level int, raw []byte) ([]byte, Compression, error) {
	if c == CompressionNone || len(raw) == 0 {
		return raw, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("persistence: lz4: %w", err)
		}
		out = dst[:n]
	case CompressionZstd:
		zl := zstd.SpeedDefault
		if level > 0 {
			zl = zstd.EncoderLevelFromZstd(level)
		}
		pool := zstdEncoderPool(zl)
		enc := pool.Get().(*zstd.Encoder)
		out = enc.EncodeAll(raw, nil)
		pool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	// lz4 reports incompressible input as n == 0.
	if len(out) == 0 || float64(len(out)) > float64(len(raw))*(1-minSavings) {
		return raw, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(h Header, stored []byte) ([]byte, error) {
	switch h.Compression {
	case CompressionNone:
		return stored, nil
	case CompressionLZ4:
		if h.RawLen > uint64(len(stored))*lz4MaxRatio+64 {
			return nil, fmt.Errorf("%w: raw length %d from %d lz4 bytes", ErrSizeMismatch, h.RawLen, len(stored))
		}
		dst := alignedBuffer(int(h.RawLen))
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("persistence: lz4: %w", err)
		}
		if uint64(n) != h.RawLen {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, n, h.RawLen)
		}
		return dst, nil
	case CompressionZstd:
		dec := zstdDecoders.Get().(*zstd.Decoder)
		defer zstdDecoders.Put(dec)
		out, err := dec.DecodeAll(stored, nil)
		if err != nil {
			return nil, fmt.Errorf("persistence: zstd: %w", err)
		}
		if uint64(len(out)) != h.RawLen {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(out), h.RawLen)
		}
		return realign(out), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
}
