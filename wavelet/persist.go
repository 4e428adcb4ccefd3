package wavelet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
)

const headerSize = 16

// SizeInBytes returns the encoded size.
func (m *Matrix) SizeInBytes() int64 {
	n := headerSize + m.zeros.SizeInBytes()
	for _, bv := range m.levels {
		n += bv.SizeInBytes()
	}
	return n
}

// WriteTo encodes the matrix:
//
//	u64 size
//	u64 alphabet
//	<container> zeros (u64 per level)
//	BitVector × levels
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint64(hdr[0:], m.size)
	binary.LittleEndian.PutUint64(hdr[8:], m.alphabet)
	n, err := w.Write(hdr[:])
	written := int64(n)
	if err != nil {
		return written, err
	}
	k, err := m.zeros.WriteTo(w)
	written += k
	if err != nil {
		return written, err
	}
	for _, bv := range m.levels {
		k, err := bv.WriteTo(w)
		written += k
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Load decodes a matrix from r.
func Load(r io.Reader) (*Matrix, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("wavelet: header: %w: %w", ErrTruncated, err)
	}
	m, err := newFromHeader(hdr[:])
	if err != nil {
		return nil, err
	}
	if _, err := m.zeros.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("wavelet: zeros: %w", truncated(err))
	}
	if err := m.allocLevels(); err != nil {
		return nil, err
	}
	for l := range m.levels {
		bv, err := bitvector.Load(r)
		if err != nil {
			return nil, fmt.Errorf("wavelet: level %d: %w", l, err)
		}
		m.levels[l] = bv
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Map decodes a matrix at the start of b, aliasing b where alignment allows.
// It returns the number of bytes consumed.
func Map(b []byte) (*Matrix, int, error) {
	if len(b) < headerSize {
		return nil, 0, fmt.Errorf("wavelet: header: %w", ErrTruncated)
	}
	m, err := newFromHeader(b[:headerSize])
	if err != nil {
		return nil, 0, err
	}
	off := headerSize
	n, err := m.zeros.Map(b[off:])
	if err != nil {
		return nil, 0, fmt.Errorf("wavelet: zeros: %w", truncated(err))
	}
	off += n
	if err := m.allocLevels(); err != nil {
		return nil, 0, err
	}
	for l := range m.levels {
		bv, n, err := bitvector.Map(b[off:])
		if err != nil {
			return nil, 0, fmt.Errorf("wavelet: level %d: %w", l, err)
		}
		m.levels[l] = bv
		off += n
	}
	if err := m.validate(); err != nil {
		return nil, 0, err
	}
	return m, off, nil
}

func newFromHeader(hdr []byte) (*Matrix, error) {
	m := &Matrix{
		size:     binary.LittleEndian.Uint64(hdr[0:]),
		alphabet: binary.LittleEndian.Uint64(hdr[8:]),
	}
	if m.size > bitvector.MaxLen {
		return nil, fmt.Errorf("%w: length %d", ErrFormat, m.size)
	}
	if (m.size == 0) != (m.alphabet == 0) {
		return nil, fmt.Errorf("%w: alphabet %d for %d values", ErrFormat, m.alphabet, m.size)
	}
	return m, nil
}

func (m *Matrix) allocLevels() error {
	if want := levelsFor(m.alphabet); m.zeros.Len() != want {
		return fmt.Errorf("%w: %d levels for alphabet %d", ErrFormat, m.zeros.Len(), m.alphabet)
	}
	m.levels = make([]*bitvector.BitVector, m.zeros.Len())
	return nil
}

func (m *Matrix) validate() error {
	for l, bv := range m.levels {
		if bv.Len() != m.size {
			return fmt.Errorf("%w: level %d has %d bits, want %d", ErrFormat, l, bv.Len(), m.size)
		}
		if bv.Zeros() != m.zeros.At(l) {
			return fmt.Errorf("%w: level %d has %d zeros, header says %d", ErrFormat, l, bv.Zeros(), m.zeros.At(l))
		}
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, container.ErrTruncated) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}
