package bitvector

import (
	"fmt"
	"math"
)

const (
	// SBlock is the small-block size in bits.
	SBlock = 64
	// LBlock is the large-block size in bits.
	LBlock = 512
	// BlockRate is the number of small blocks per large block.
	BlockRate = LBlock / SBlock

	// MaxLen is the largest supported length. Sample positions and absolute
	// counts are stored as u32.
	MaxLen = math.MaxUint32
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	select0 bool
	select1 bool
}

// WithSelect1 samples every 512th one so Select1 jumps straight to its block.
func WithSelect1() BuildOption {
	return func(c *buildConfig) { c.select1 = true }
}

// WithSelect0 samples every 512th zero so Select0 jumps straight to its block.
func WithSelect0() BuildOption {
	return func(c *buildConfig) { c.select0 = true }
}

// Builder accumulates bits for a BitVector. The zero value is an empty builder.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	size   uint64
	blocks []uint64
}

// NewBuilder returns a builder holding size zero bits.
func NewBuilder(size uint64) *Builder {
	if size > MaxLen {
		panic(fmt.Sprintf("bitvector: length %d exceeds %d", size, uint64(MaxLen)))
	}
	return &Builder{size: size, blocks: make([]uint64, blocksFor(size))}
}

func blocksFor(size uint64) uint64 {
	return (size + SBlock - 1) / SBlock
}

// Len returns the number of bits.
func (b *Builder) Len() uint64 {
	return b.size
}

// Set writes bit i, growing the builder when i is past the end.
func (b *Builder) Set(i uint64, v bool) {
	if i >= MaxLen {
		panic(outOfRange("Set", i, MaxLen))
	}
	if i >= b.size {
		b.size = i + 1
	}
	q, r := i/SBlock, i%SBlock
	if need := int(q) + 1; need > len(b.blocks) {
		b.blocks = append(b.blocks, make([]uint64, need-len(b.blocks))...)
	}
	if v {
		b.blocks[q] |= 1 << r
	} else {
		b.blocks[q] &^= 1 << r
	}
}

// Push appends one bit.
func (b *Builder) Push(v bool) {
	b.Set(b.size, v)
}

// Get returns bit i.
func (b *Builder) Get(i uint64) bool {
	if i >= b.size {
		panic(outOfRange("Get", i, b.size))
	}
	return b.blocks[i/SBlock]>>(i%SBlock)&1 == 1
}

// Build freezes the collected bits and resets the builder.
func (b *Builder) Build(opts ...BuildOption) *BitVector {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	v := build(b.size, b.blocks, cfg)
	*b = Builder{}
	return v
}
