// Package wavelet implements a wavelet matrix over unsigned integer sequences.
//
// A Matrix answers positional queries on an immutable sequence: the value at
// a position, how often a value occurs in a range, where its k-th occurrence
// is, and order statistics such as the k-th smallest value in a range. Each
// query costs one rank or select per level, and the number of levels is the
// bit width of the largest value.
package wavelet

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
)

var (
	// ErrTooLarge is returned when the sequence exceeds the bit vector limit.
	ErrTooLarge = errors.New("wavelet: sequence too large")
	// ErrFormat is returned when an encoded matrix is inconsistent.
	ErrFormat = errors.New("wavelet: invalid format")
	// ErrTruncated is returned when an encoded matrix ends early.
	ErrTruncated = bitvector.ErrTruncated
)

// Matrix is an immutable wavelet matrix. It is safe for concurrent use.
type Matrix struct {
	size     uint64
	alphabet uint64
	levels   []*bitvector.BitVector
	// zeros[l] is the number of zeros on level l, which is where the
	// one-partition of the next level starts.
	zeros container.Vector[uint64]
}

// Build returns a matrix over values.
func Build(values []uint64) (*Matrix, error) {
	if uint64(len(values)) > bitvector.MaxLen {
		return nil, fmt.Errorf("%w: %d values", ErrTooLarge, len(values))
	}

	var alphabet uint64
	for _, v := range values {
		if v == math.MaxUint64 {
			return nil, fmt.Errorf("%w: value %d", ErrTooLarge, v)
		}
		alphabet = max(alphabet, v+1)
	}
	nlevels := levelsFor(alphabet)

	m := &Matrix{
		size:     uint64(len(values)),
		alphabet: alphabet,
		levels:   make([]*bitvector.BitVector, nlevels),
		zeros:    container.New[uint64](nlevels),
	}

	cur := append([]uint64(nil), values...)
	next := make([]uint64, len(values))
	for l := range nlevels {
		shift := uint(nlevels - 1 - l)
		b := bitvector.NewBuilder(m.size)
		var nz int
		for i, v := range cur {
			if v>>shift&1 == 1 {
				b.Set(uint64(i), true)
			} else {
				nz++
			}
		}
		// Stable partition: zeros first, then ones.
		zi, oi := 0, nz
		for _, v := range cur {
			if v>>shift&1 == 1 {
				next[oi] = v
				oi++
			} else {
				next[zi] = v
				zi++
			}
		}
		m.levels[l] = b.Build(bitvector.WithSelect0(), bitvector.WithSelect1())
		m.zeros.Set(l, uint64(nz))
		cur, next = next, cur
	}
	return m, nil
}

// levelsFor returns the bit width needed for values below alphabet.
func levelsFor(alphabet uint64) int {
	if alphabet <= 1 {
		return 0
	}
	return bits.Len64(alphabet - 1)
}

// Len returns the sequence length.
func (m *Matrix) Len() uint64 {
	return m.size
}

// Alphabet returns one more than the largest value, or 0 when empty.
func (m *Matrix) Alphabet() uint64 {
	return m.alphabet
}

// Levels returns the number of bit levels.
func (m *Matrix) Levels() int {
	return len(m.levels)
}

// Access returns the value at pos.
func (m *Matrix) Access(pos uint64) (uint64, bool) {
	if pos >= m.size {
		return 0, false
	}
	var c uint64
	for l, bv := range m.levels {
		c <<= 1
		if bv.Get(pos) {
			c |= 1
			pos = m.zeros.At(l) + bv.Rank1(pos)
		} else {
			pos = bv.Rank0(pos)
		}
	}
	return c, true
}

func (m *Matrix) bit(c uint64, l int) bool {
	return c>>uint(len(m.levels)-1-l)&1 == 1
}

func (m *Matrix) inAlphabet(c uint64) bool {
	return c < m.alphabet
}

// descend maps the range [begin, end) on level 0 to the range of value c on
// the bottom level.
func (m *Matrix) descend(c, begin, end uint64) (uint64, uint64) {
	for l, bv := range m.levels {
		if m.bit(c, l) {
			z := m.zeros.At(l)
			begin, end = z+bv.Rank1(begin), z+bv.Rank1(end)
		} else {
			begin, end = bv.Rank0(begin), bv.Rank0(end)
		}
	}
	return begin, end
}

// Rank returns the number of occurrences of c in [0, pos).
func (m *Matrix) Rank(c, pos uint64) uint64 {
	pos = min(pos, m.size)
	if !m.inAlphabet(c) {
		return 0
	}
	begin, end := m.descend(c, 0, pos)
	return end - begin
}

// RankLessThan returns the number of values less than c in [0, pos).
func (m *Matrix) RankLessThan(c, pos uint64) uint64 {
	_, less, _ := m.RankAll(c, 0, pos)
	return less
}

// RankMoreThan returns the number of values greater than c in [0, pos).
func (m *Matrix) RankMoreThan(c, pos uint64) uint64 {
	_, _, more := m.RankAll(c, 0, pos)
	return more
}

// RankAll returns, for the range [begin, end), the number of values equal
// to, less than and greater than c.
func (m *Matrix) RankAll(c, begin, end uint64) (rank, less, more uint64) {
	end = min(end, m.size)
	if begin >= end {
		return 0, 0, 0
	}
	if c >= m.alphabet {
		return 0, end - begin, 0
	}
	for l, bv := range m.levels {
		r0b, r0e := bv.Rank0(begin), bv.Rank0(end)
		if m.bit(c, l) {
			less += r0e - r0b
			z := m.zeros.At(l)
			begin, end = z+(begin-r0b), z+(end-r0e)
		} else {
			more += (end - begin) - (r0e - r0b)
			begin, end = r0b, r0e
		}
	}
	return end - begin, less, more
}

// Select returns the position of the (k+1)-th occurrence of c.
func (m *Matrix) Select(c, k uint64) (uint64, bool) {
	if !m.inAlphabet(c) {
		return 0, false
	}
	begin, end := m.descend(c, 0, m.size)
	if k >= end-begin {
		return 0, false
	}
	pos := begin + k
	for l := len(m.levels) - 1; l >= 0; l-- {
		bv := m.levels[l]
		if m.bit(c, l) {
			pos, _ = bv.Select1(pos - m.zeros.At(l))
		} else {
			pos, _ = bv.Select0(pos)
		}
	}
	return pos, true
}

// SelectFrom returns the position of the (k+1)-th occurrence of c at or after
// from.
func (m *Matrix) SelectFrom(c, from, k uint64) (uint64, bool) {
	return m.Select(c, m.Rank(c, from)+k)
}

// Freq returns the number of occurrences of c.
func (m *Matrix) Freq(c uint64) uint64 {
	return m.Rank(c, m.size)
}

// FreqSum returns the number of values in [minC, maxC).
func (m *Matrix) FreqSum(minC, maxC uint64) uint64 {
	return m.FreqRange(minC, maxC, 0, m.size)
}

// FreqRange returns the number of values in [minC, maxC) within the position
// range [begin, end).
func (m *Matrix) FreqRange(minC, maxC, begin, end uint64) uint64 {
	if maxC <= minC {
		return 0
	}
	_, hi, _ := m.RankAll(maxC, begin, end)
	_, lo, _ := m.RankAll(minC, begin, end)
	return hi - lo
}

// Quantile returns the (k+1)-th smallest value in [begin, end) and the
// position of that occurrence. Ties resolve to earlier positions first.
func (m *Matrix) Quantile(begin, end, k uint64) (pos, val uint64, ok bool) {
	end = min(end, m.size)
	if begin >= end || k >= end-begin {
		return 0, 0, false
	}
	for l, bv := range m.levels {
		r0b, r0e := bv.Rank0(begin), bv.Rank0(end)
		val <<= 1
		if nz := r0e - r0b; k < nz {
			begin, end = r0b, r0e
		} else {
			k -= nz
			val |= 1
			z := m.zeros.At(l)
			begin, end = z+(begin-r0b), z+(end-r0e)
		}
	}
	start, _ := m.descend(val, 0, 0)
	pos, _ = m.Select(val, begin+k-start)
	return pos, val, true
}

// Min returns the smallest value in [begin, end) and its first position.
func (m *Matrix) Min(begin, end uint64) (pos, val uint64, ok bool) {
	return m.Quantile(begin, end, 0)
}

// Max returns the largest value in [begin, end) and its last position.
func (m *Matrix) Max(begin, end uint64) (pos, val uint64, ok bool) {
	end = min(end, m.size)
	if begin >= end {
		return 0, 0, false
	}
	return m.Quantile(begin, end, end-begin-1)
}
