package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unsafe"
)

var (
	// ErrTruncated is returned when the input ends before the encoded vector does.
	ErrTruncated = errors.New("container: truncated input")
	// ErrTooLarge is returned when an encoded element count cannot be represented.
	ErrTooLarge = errors.New("container: element count too large")
	// ErrReadOnly is the panic value for writes to a borrowed vector.
	ErrReadOnly = errors.New("container: vector is borrowed and read-only")
)

// HeaderSize is the size of the element-count prefix.
const HeaderSize = 8

// readChunk bounds the allocation made per step while streaming elements, so a
// corrupt count fails with ErrTruncated instead of exhausting memory.
const readChunk = 1 << 20

// Vector is a growable sequence of fixed-size elements.
//
// The zero value is an empty owned vector ready to use.
type Vector[T any] struct {
	elems []T
	src   Source
}

// New returns an owned vector of length n.
func New[T any](n int) Vector[T] {
	return Vector[T]{elems: make([]T, n)}
}

// FromSlice returns an owned vector that takes over s.
func FromSlice[T any](s []T) Vector[T] {
	return Vector[T]{elems: s}
}

// ElemSize returns sizeof(T).
func ElemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Source returns the backing variant.
func (v *Vector[T]) Source() Source {
	if v.src == nil {
		return OwnedSource{}
	}
	return v.src
}

// Borrowed reports whether the vector aliases an external region.
func (v *Vector[T]) Borrowed() bool {
	return !v.Source().Owned()
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return len(v.elems)
}

// At returns element i.
func (v *Vector[T]) At(i int) T {
	return v.elems[i]
}

// Slice returns the elements. Callers must not modify a borrowed vector's slice.
func (v *Vector[T]) Slice() []T {
	return v.elems
}

func (v *Vector[T]) mustOwn() {
	if v.Borrowed() {
		panic(ErrReadOnly)
	}
}

// Set stores x at index i.
func (v *Vector[T]) Set(i int, x T) {
	v.mustOwn()
	v.elems[i] = x
}

// Append adds x to the end of the vector.
func (v *Vector[T]) Append(x T) {
	v.mustOwn()
	v.elems = append(v.elems, x)
}

// Resize changes the length to n, zero-filling new elements.
func (v *Vector[T]) Resize(n int) {
	v.mustOwn()
	if n <= cap(v.elems) {
		old := len(v.elems)
		v.elems = v.elems[:n]
		if n > old {
			clear(v.elems[old:])
		}
		return
	}
	grown := make([]T, n, max(n, 2*cap(v.elems)))
	copy(grown, v.elems)
	v.elems = grown
}

// Shrink drops spare capacity.
func (v *Vector[T]) Shrink() {
	v.mustOwn()
	if len(v.elems) == cap(v.elems) {
		return
	}
	v.elems = append([]T(nil), v.elems...)
}

// Reset releases the elements (owned or borrowed) and returns to the zero value.
func (v *Vector[T]) Reset() {
	*v = Vector[T]{}
}

// SizeInBytes returns the encoded size of the vector.
func (v *Vector[T]) SizeInBytes() int64 {
	return HeaderSize + int64(len(v.elems))*int64(ElemSize[T]())
}

// WriteTo writes the length-prefixed encoding of the vector.
func (v *Vector[T]) WriteTo(w io.Writer) (int64, error) {
	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(v.elems)))
	n, err := w.Write(hdr[:])
	written := int64(n)
	if err != nil {
		return written, err
	}
	if len(v.elems) == 0 {
		return written, nil
	}
	n, err = w.Write(asBytes(v.elems))
	written += int64(n)
	return written, err
}

// ReadFrom replaces the vector with one decoded from r. On error the vector is
// left empty.
func (v *Vector[T]) ReadFrom(r io.Reader) (int64, error) {
	v.Reset()

	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	read := int64(n)
	if err != nil {
		return read, truncated(err)
	}

	count, err := checkCount[T](binary.LittleEndian.Uint64(hdr[:]))
	if err != nil {
		return read, err
	}

	elems := make([]T, 0, min(count, readChunk))
	for len(elems) < count {
		step := min(count-len(elems), readChunk)
		start := len(elems)
		elems = append(elems, make([]T, step)...)
		n, err := io.ReadFull(r, asBytes(elems[start:]))
		read += int64(n)
		if err != nil {
			return read, truncated(err)
		}
	}

	v.elems = elems
	return read, nil
}

// Map decodes the vector at the start of b. When b is aligned for T the
// vector borrows b; otherwise the elements are copied. It returns the number of
// bytes consumed.
func (v *Vector[T]) Map(b []byte) (int, error) {
	v.Reset()

	if len(b) < HeaderSize {
		return 0, fmt.Errorf("%w: need %d header bytes, have %d", ErrTruncated, HeaderSize, len(b))
	}
	count, err := checkCount[T](binary.LittleEndian.Uint64(b[:HeaderSize]))
	if err != nil {
		return 0, err
	}

	size := count * ElemSize[T]()
	end := HeaderSize + size
	if end > len(b) || end < HeaderSize {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, end, len(b))
	}

	region := b[HeaderSize:end:end]
	if count == 0 {
		return end, nil
	}
	if aligned[T](region) {
		v.elems = asElems[T](region, count)
		v.src = BorrowedSource{Region: region}
		return end, nil
	}

	elems := make([]T, count)
	copy(asBytes(elems), region)
	v.elems = elems
	return end, nil
}

func checkCount[T any](count uint64) (int, error) {
	size := uint64(ElemSize[T]())
	if size == 0 {
		return 0, fmt.Errorf("container: zero-sized element type")
	}
	if count > uint64(math.MaxInt)/size {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrTooLarge, count, size)
	}
	return int(count), nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}
