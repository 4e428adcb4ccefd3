package bitvector

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/succinct/internal/container"
)

const headerSize = 16

// SizeInBytes returns the encoded size.
func (v *BitVector) SizeInBytes() int64 {
	v = v.canonical()
	return headerSize + v.blocks.SizeInBytes() + v.ranks.SizeInBytes() +
		v.select0.SizeInBytes() + v.select1.SizeInBytes()
}

// WriteTo encodes the bit vector.
func (v *BitVector) WriteTo(w io.Writer) (int64, error) {
	v = v.canonical()
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint64(hdr[0:], v.size)
	binary.LittleEndian.PutUint64(hdr[8:], v.ones)
	n, err := w.Write(hdr[:])
	written := int64(n)
	if err != nil {
		return written, err
	}

	for _, wt := range []io.WriterTo{&v.blocks, &v.ranks, &v.select0, &v.select1} {
		m, err := wt.WriteTo(w)
		written += m
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Load decodes a bit vector from r. On error no bit vector is returned.
func Load(r io.Reader) (*BitVector, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, &FormatError{Section: "header", Err: fmt.Errorf("%w: %w", ErrTruncated, err)}
	}

	v := &BitVector{
		size: binary.LittleEndian.Uint64(hdr[0:]),
		ones: binary.LittleEndian.Uint64(hdr[8:]),
	}
	off := int64(headerSize)

	sections := []struct {
		name string
		rf   io.ReaderFrom
	}{
		{"blocks", &v.blocks},
		{"ranks", &v.ranks},
		{"select0", &v.select0},
		{"select1", &v.select1},
	}
	for _, s := range sections {
		n, err := s.rf.ReadFrom(r)
		if err != nil {
			return nil, sectionError(s.name, off, err)
		}
		off += n
	}

	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Map decodes a bit vector at the start of b. Sections that are aligned alias
// b, so b must stay valid and unmodified for the lifetime of the result. It
// returns the number of bytes consumed.
func Map(b []byte) (*BitVector, int, error) {
	if len(b) < headerSize {
		return nil, 0, &FormatError{Section: "header", Err: fmt.Errorf("%w: have %d bytes", ErrTruncated, len(b))}
	}

	v := &BitVector{
		size: binary.LittleEndian.Uint64(b[0:]),
		ones: binary.LittleEndian.Uint64(b[8:]),
	}
	off := headerSize

	sections := []struct {
		name string
		m    interface{ Map([]byte) (int, error) }
	}{
		{"blocks", &v.blocks},
		{"ranks", &v.ranks},
		{"select0", &v.select0},
		{"select1", &v.select1},
	}
	for _, s := range sections {
		n, err := s.m.Map(b[off:])
		if err != nil {
			return nil, 0, sectionError(s.name, int64(off), err)
		}
		off += n
	}

	if err := v.validate(); err != nil {
		return nil, 0, err
	}
	return v, off, nil
}

// canonical returns v, or a built empty vector for the zero value, which
// has no rank directory.
func (v *BitVector) canonical() *BitVector {
	if v.ranks.Len() == 0 {
		return build(0, nil, buildConfig{})
	}
	return v
}

// validate checks the cross-section invariants queries rely on, so a corrupt
// record is rejected instead of panicking later.
func (v *BitVector) validate() error {
	if v.size > MaxLen {
		return &FormatError{Section: "header", Err: fmt.Errorf("%w: length %d exceeds %d", ErrFormat, v.size, uint64(MaxLen))}
	}
	if v.ones > v.size {
		return &FormatError{Section: "header", Err: fmt.Errorf("%w: %d ones in %d bits", ErrFormat, v.ones, v.size)}
	}

	nblocks := blocksFor(v.size)
	if uint64(v.blocks.Len()) != nblocks {
		return &FormatError{Section: "blocks", Offset: headerSize,
			Err: fmt.Errorf("%w: %d words for %d bits", ErrSizeMismatch, v.blocks.Len(), v.size)}
	}
	nranks := (nblocks*SBlock+LBlock-1)/LBlock + 1
	if uint64(v.ranks.Len()) != nranks {
		return &FormatError{Section: "ranks",
			Err: fmt.Errorf("%w: %d entries, want %d", ErrSizeMismatch, v.ranks.Len(), nranks)}
	}
	if last := v.ranks.At(v.ranks.Len() - 1); last.Abs() != v.ones {
		return &FormatError{Section: "ranks",
			Err: fmt.Errorf("%w: closing count %d, want %d", ErrFormat, last.Abs(), v.ones)}
	}

	// The zero window also counts the padding past size in the last word.
	padded := nblocks * SBlock
	if err := checkSamples("select1", &v.select1, v.ones, v.size); err != nil {
		return err
	}
	if err := checkSamples("select0", &v.select0, padded-v.ones, v.size); err != nil {
		return err
	}
	return v.checkIndex()
}

// checkIndex rebuilds the rank directory and sample tables from the words
// and requires the stored ones to match exactly.
func (v *BitVector) checkIndex() error {
	words := v.blocks.Slice()
	if m := v.size % SBlock; m != 0 && words[len(words)-1]>>m != 0 {
		return &FormatError{Section: "blocks", Err: fmt.Errorf("%w: bits set past length %d", ErrFormat, v.size)}
	}

	ref := build(v.size, words, buildConfig{select0: v.HasSelect0(), select1: v.HasSelect1()})
	if ref.ones != v.ones {
		return &FormatError{Section: "header", Err: fmt.Errorf("%w: header counts %d ones, words hold %d", ErrFormat, v.ones, ref.ones)}
	}
	for _, s := range []struct {
		name string
		ok   bool
	}{
		{"ranks", slices.Equal(ref.ranks.Slice(), v.ranks.Slice())},
		{"select0", slices.Equal(ref.select0.Slice(), v.select0.Slice())},
		{"select1", slices.Equal(ref.select1.Slice(), v.select1.Slice())},
	} {
		if !s.ok {
			return &FormatError{Section: s.name, Err: fmt.Errorf("%w: index does not match the words", ErrFormat)}
		}
	}
	return nil
}

func checkSamples(name string, table *container.Vector[uint32], counted, size uint64) error {
	if table.Len() == 0 {
		return nil
	}
	want := (counted+LBlock-1)/LBlock + 1
	if uint64(table.Len()) != want {
		return &FormatError{Section: name,
			Err: fmt.Errorf("%w: %d samples, want %d", ErrSizeMismatch, table.Len(), want)}
	}
	if sentinel := uint64(table.At(table.Len() - 1)); sentinel != size {
		return &FormatError{Section: name,
			Err: fmt.Errorf("%w: sentinel %d, want %d", ErrFormat, sentinel, size)}
	}
	return nil
}
