// Package packed stores unsigned integers using a fixed number of bits each.
//
// Values are laid out back to back in a word container, least significant bit
// first, and may straddle a word boundary. The encoding is
//
//	u64 width
//	u64 length
//	<container> words (u64 elements)
package packed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/hupe1980/succinct/internal/container"
)

// ErrWidth is returned for widths outside [0, 64].
var ErrWidth = errors.New("packed: invalid width")

// Array is a fixed-width integer array. The zero value is empty.
type Array struct {
	width  uint
	length int
	mask   uint64
	words  container.Vector[uint64]
}

// WidthFor returns the number of bits needed to store values in [0, n).
// It is at least 1 so that single-valued arrays still index correctly.
func WidthFor(n uint64) uint {
	if n <= 1 {
		return 1
	}
	return uint(bits.Len64(n - 1))
}

// New returns a zeroed array of length n with the given width.
func New(n int, width uint) (*Array, error) {
	if width > 64 {
		return nil, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	a := &Array{width: width, length: n, mask: maskFor(width)}
	a.words = container.New[uint64](wordsFor(n, width))
	return a, nil
}

// FromValues packs values using the smallest width that holds the largest one.
func FromValues(values []uint64) *Array {
	var maxV uint64
	for _, v := range values {
		maxV = max(maxV, v)
	}
	a, _ := New(len(values), WidthFor(maxV+1))
	for i, v := range values {
		a.Set(i, v)
	}
	return a
}

func maskFor(width uint) uint64 {
	if width == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func wordsFor(n int, width uint) int {
	return int((uint64(n)*uint64(width) + 63) / 64)
}

// Len returns the number of values.
func (a *Array) Len() int {
	return a.length
}

// Width returns the bits per value.
func (a *Array) Width() uint {
	return a.width
}

// Get returns value i.
func (a *Array) Get(i int) uint64 {
	if i < 0 || i >= a.length {
		panic(fmt.Sprintf("packed: index %d out of range [0,%d)", i, a.length))
	}
	if a.width == 0 {
		return 0
	}
	pos := uint64(i) * uint64(a.width)
	q, r := pos/64, uint(pos%64)
	words := a.words.Slice()
	v := words[q] >> r
	if r+a.width > 64 {
		v |= words[q+1] << (64 - r)
	}
	return v & a.mask
}

// Set stores v at index i. Bits of v beyond the width are dropped.
func (a *Array) Set(i int, v uint64) {
	if i < 0 || i >= a.length {
		panic(fmt.Sprintf("packed: index %d out of range [0,%d)", i, a.length))
	}
	if a.width == 0 {
		return
	}
	v &= a.mask
	pos := uint64(i) * uint64(a.width)
	q, r := int(pos/64), uint(pos%64)

	w := a.words.At(q)
	w = (w &^ (a.mask << r)) | (v << r)
	a.words.Set(q, w)
	if r+a.width > 64 {
		spill := r + a.width - 64
		hi := a.words.At(q + 1)
		hi = (hi &^ maskFor(spill)) | (v >> (64 - r))
		a.words.Set(q+1, hi)
	}
}

// Borrowed reports whether the words alias a mapped region.
func (a *Array) Borrowed() bool {
	return a.words.Borrowed()
}

// SizeInBytes returns the encoded size.
func (a *Array) SizeInBytes() int64 {
	return 16 + a.words.SizeInBytes()
}

// WriteTo encodes the array.
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(a.width))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(a.length))
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), err
	}
	m, err := a.words.WriteTo(w)
	return int64(n) + m, err
}

// ReadFrom decodes an array from r.
func (a *Array) ReadFrom(r io.Reader) (int64, error) {
	*a = Array{}
	var hdr [16]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", container.ErrTruncated, err)
	}
	var words container.Vector[uint64]
	m, err := words.ReadFrom(r)
	if err != nil {
		return int64(n) + m, err
	}
	if err := a.init(hdr[:], words); err != nil {
		return int64(n) + m, err
	}
	return int64(n) + m, nil
}

// Map decodes an array at the start of b, borrowing the word region when
// possible. It returns the bytes consumed.
func (a *Array) Map(b []byte) (int, error) {
	*a = Array{}
	if len(b) < 16 {
		return 0, fmt.Errorf("%w: packed header", container.ErrTruncated)
	}
	var words container.Vector[uint64]
	m, err := words.Map(b[16:])
	if err != nil {
		return 0, err
	}
	if err := a.init(b[:16], words); err != nil {
		return 0, err
	}
	return 16 + m, nil
}

func (a *Array) init(hdr []byte, words container.Vector[uint64]) error {
	width := binary.LittleEndian.Uint64(hdr[0:])
	length := binary.LittleEndian.Uint64(hdr[8:])
	if width > 64 {
		return fmt.Errorf("%w: %d", ErrWidth, width)
	}
	if length > uint64(words.Len())*64 {
		return fmt.Errorf("packed: length %d does not fit %d words", length, words.Len())
	}
	if wordsFor(int(length), uint(width)) != words.Len() {
		return fmt.Errorf("packed: %d values of width %d need %d words, have %d",
			length, width, wordsFor(int(length), uint(width)), words.Len())
	}
	a.width = uint(width)
	a.length = int(length)
	a.mask = maskFor(a.width)
	a.words = words
	return nil
}
