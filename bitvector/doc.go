// Package bitvector implements a static bit vector with constant-time rank and
// fast select.
//
// Bits are collected with a Builder and frozen with Build. The resulting
// BitVector is immutable and safe for concurrent readers. Its rank directory
// holds one rankindex entry per 512-bit block with seven packed relative
// counts for the 64-bit sub-blocks, so Rank1 is a table lookup plus one
// masked population count. Select1 and Select0 narrow the search to a single
// 512-bit block, either through an optional sample table holding the position
// of every 512th one (zero) or by searching the whole rank directory, and
// finish with a branch-free in-word select.
//
// A BitVector serializes to a flat little-endian record:
//
//	u64 size
//	u64 ones
//	<container> blocks   (u64)
//	<container> ranks    (16 bytes: u32 abs, 4 padding, u64 packed rel)
//	<container> select0  (u32)
//	<container> select1  (u32)
//
// where <container> is a u64 element count followed by the raw elements.
// Map reinterprets such a record in place without copying when the region is
// suitably aligned.
package bitvector
