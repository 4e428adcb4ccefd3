// Package rankindex implements the per-512-bit entry of the rank directory.
//
// An Index stores the absolute number of ones preceding its 512-bit block and
// seven relative counts, one per following 64-bit sub-block, packed into a
// single word:
//
//	rel1: bits  0..6   (7 bits)
//	rel2: bits  7..14  (8 bits)
//	rel3: bits 15..22  (8 bits)
//	rel4: bits 23..31  (9 bits)
//	rel5: bits 32..40  (9 bits)
//	rel6: bits 41..49  (9 bits)
//	rel7: bits 50..58  (9 bits)
//
// relK counts the ones in sub-blocks 0..K-1, so it is bounded by 64*K and the
// widths above are the smallest that hold those bounds.
package rankindex

import "fmt"

// Size is the encoded size of an Index in bytes (u32 abs, 4 padding, u64 rel).
const Size = 16

// NumRel is the number of relative counters per entry.
const NumRel = 7

var (
	widths  = [NumRel + 1]uint{0, 7, 8, 8, 9, 9, 9, 9}
	offsets = [NumRel + 1]uint{0, 0, 7, 15, 23, 32, 41, 50}
)

// Width returns the bit width of relative counter k (1..7).
func Width(k int) uint {
	checkK(k)
	return widths[k]
}

// Offset returns the bit offset of relative counter k (1..7).
func Offset(k int) uint {
	checkK(k)
	return offsets[k]
}

func mask(k int) uint64 {
	return (uint64(1) << widths[k]) - 1
}

func checkK(k int) {
	if k < 1 || k > NumRel {
		panic(fmt.Sprintf("rankindex: relative counter %d out of range [1,%d]", k, NumRel))
	}
}

// Index is one entry of the rank directory.
//
// The struct layout matches the on-disk record so a mapped region can be
// reinterpreted as []Index without copying.
type Index struct {
	abs uint32
	_   uint32
	rel uint64
}

// Abs returns the absolute one count at the start of the block.
func (x Index) Abs() uint64 {
	return uint64(x.abs)
}

// SetAbs stores the absolute one count.
func (x *Index) SetAbs(v uint64) {
	x.abs = uint32(v)
}

// Rel returns relative counter k (1..7).
func (x Index) Rel(k int) uint64 {
	checkK(k)
	return (x.rel >> offsets[k]) & mask(k)
}

// SetRel stores relative counter k (1..7). Values wider than the counter are
// truncated; other counters are left untouched.
func (x *Index) SetRel(k int, v uint64) {
	checkK(k)
	m := mask(k)
	x.rel = (x.rel &^ (m << offsets[k])) | ((v & m) << offsets[k])
}

// RelFor returns the relative count for sub-block j (0..7) of the block. Sub-block
// 0 has no stored counter and always returns 0.
func (x Index) RelFor(j uint64) uint64 {
	switch j {
	case 1:
		return x.rel & 0x7F
	case 2:
		return (x.rel >> 7) & 0xFF
	case 3:
		return (x.rel >> 15) & 0xFF
	case 4:
		return (x.rel >> 23) & 0x1FF
	case 5:
		return (x.rel >> 32) & 0x1FF
	case 6:
		return (x.rel >> 41) & 0x1FF
	case 7:
		return (x.rel >> 50) & 0x1FF
	default:
		return 0
	}
}

// Packed returns the raw relative word.
func (x Index) Packed() uint64 {
	return x.rel
}

// FromParts rebuilds an Index from its encoded fields.
func FromParts(abs uint32, rel uint64) Index {
	return Index{abs: abs, rel: rel}
}
