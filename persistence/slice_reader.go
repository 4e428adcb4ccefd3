package persistence

import (
	"encoding/binary"
	"fmt"
)

// SliceReader provides bounds-checked little-endian reads from a byte
// slice without copying.
type SliceReader struct {
	b   []byte
	off int
}

// NewSliceReader returns a reader positioned at the start of b.
func NewSliceReader(b []byte) *SliceReader {
	return &SliceReader{b: b}
}

// Offset returns the number of bytes consumed.
func (r *SliceReader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *SliceReader) Len() int { return len(r.b) - r.off }

// ReadBytes returns the next n bytes as a view into the underlying slice.
func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.b)-r.off {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, %d available", ErrTruncated, n, r.off, r.Len())
	}
	out := r.b[r.off : r.off+n : r.off+n]
	r.off += n
	return out, nil
}

func (r *SliceReader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *SliceReader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *SliceReader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *SliceReader) ReadUint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Remaining returns the unread bytes.
func (r *SliceReader) Remaining() []byte {
	return r.b[r.off:]
}
