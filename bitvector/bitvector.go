package bitvector

import (
	"iter"
	"math/bits"

	"github.com/hupe1980/succinct/internal/container"
	"github.com/hupe1980/succinct/internal/popcount"
	"github.com/hupe1980/succinct/internal/rankindex"
)

// BitVector is an immutable bit sequence with rank and select support.
//
// The zero value is an empty bit vector.
type BitVector struct {
	size    uint64
	ones    uint64
	blocks  container.Vector[uint64]
	ranks   container.Vector[rankindex.Index]
	select0 container.Vector[uint32]
	select1 container.Vector[uint32]
}

func build(size uint64, blocks []uint64, cfg buildConfig) *BitVector {
	n := uint64(len(blocks))
	ranks := make([]rankindex.Index, (n*SBlock+LBlock-1)/LBlock+1)

	var sel0, sel1 []uint32
	var ones uint64
	// Window counters start full so the first one (zero) is sampled.
	win1, win0 := uint64(LBlock), uint64(LBlock)

	for i, w := range blocks {
		r := &ranks[i/BlockRate]
		if j := i % BlockRate; j == 0 {
			r.SetAbs(ones)
		} else {
			r.SetRel(j, ones-r.Abs())
		}

		base := uint64(i) * SBlock
		c1 := popcount.Count(w)
		if win1+c1 > LBlock {
			if cfg.select1 {
				sel1 = append(sel1, uint32(select64(w, LBlock-win1, base)))
			}
			win1 -= LBlock
		}
		c0 := SBlock - c1
		if win0+c0 > LBlock {
			if cfg.select0 {
				sel0 = append(sel0, uint32(select64(^w, LBlock-win0, base)))
			}
			win0 -= LBlock
		}

		win1 += c1
		win0 += c0
		ones += c1
	}

	// Sub-blocks past the end of a partial group carry the group total.
	if n%BlockRate != 0 {
		r := &ranks[(n-1)/BlockRate]
		for k := int((n-1)%BlockRate) + 1; k <= rankindex.NumRel; k++ {
			r.SetRel(k, ones-r.Abs())
		}
	}
	ranks[len(ranks)-1].SetAbs(ones)

	v := &BitVector{
		size:   size,
		ones:   ones,
		blocks: container.FromSlice(blocks),
		ranks:  container.FromSlice(ranks),
	}
	if cfg.select0 {
		v.select0 = container.FromSlice(append(sel0, uint32(size)))
	}
	if cfg.select1 {
		v.select1 = container.FromSlice(append(sel1, uint32(size)))
	}
	return v
}

// Len returns the number of bits.
func (v *BitVector) Len() uint64 {
	return v.size
}

// Empty reports whether the bit vector has no bits.
func (v *BitVector) Empty() bool {
	return v.size == 0
}

// Ones returns the number of set bits.
func (v *BitVector) Ones() uint64 {
	return v.ones
}

// Zeros returns the number of clear bits.
func (v *BitVector) Zeros() uint64 {
	return v.size - v.ones
}

// Count returns the number of bits equal to b.
func (v *BitVector) Count(b bool) uint64 {
	if b {
		return v.ones
	}
	return v.size - v.ones
}

// HasSelect1 reports whether a one-sample table was built.
func (v *BitVector) HasSelect1() bool {
	return v.select1.Len() > 0
}

// HasSelect0 reports whether a zero-sample table was built.
func (v *BitVector) HasSelect0() bool {
	return v.select0.Len() > 0
}

// Get returns bit i.
func (v *BitVector) Get(i uint64) bool {
	if i >= v.size {
		panic(outOfRange("Get", i, v.size))
	}
	return v.blocks.At(int(i/SBlock))>>(i%SBlock)&1 == 1
}

// Rank1 returns the number of ones in [0, i). i may equal Len.
func (v *BitVector) Rank1(i uint64) uint64 {
	if i > v.size {
		panic(outOfRange("Rank1", i, v.size))
	}
	if v.ranks.Len() == 0 {
		return 0
	}
	q := i / SBlock
	r := v.ranks.At(int(i / LBlock))
	n := r.Abs() + r.RelFor(q%BlockRate)
	if m := i % SBlock; m != 0 {
		n += popcount.Count(v.blocks.At(int(q)) & (1<<m - 1))
	}
	return n
}

// Rank0 returns the number of zeros in [0, i). i may equal Len.
func (v *BitVector) Rank0(i uint64) uint64 {
	return i - v.Rank1(i)
}

// Rank returns the number of bits equal to b in [0, i).
func (v *BitVector) Rank(b bool, i uint64) uint64 {
	if b {
		return v.Rank1(i)
	}
	return v.Rank0(i)
}

// SetBits yields the positions of set bits in increasing order.
func (v *BitVector) SetBits() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for i, w := range v.blocks.Slice() {
			for w != 0 {
				pos := uint64(i)*SBlock + uint64(bits.TrailingZeros64(w))
				if !yield(pos) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// Words returns the backing words, least significant bit first. The slice
// must not be modified.
func (v *BitVector) Words() []uint64 {
	return v.blocks.Slice()
}

// Borrowed reports whether the bit vector aliases a mapped region.
func (v *BitVector) Borrowed() bool {
	return v.blocks.Borrowed() || v.ranks.Borrowed() || v.select0.Borrowed() || v.select1.Borrowed()
}
