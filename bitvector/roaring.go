package bitvector

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// FromBitmap builds a bit vector of the given length with the bits of bm set.
// The length grows to cover the largest member of bm.
func FromBitmap(bm *roaring.Bitmap, size uint64, opts ...BuildOption) *BitVector {
	b := NewBuilder(size)
	it := bm.Iterator()
	for it.HasNext() {
		b.Set(uint64(it.Next()), true)
	}
	return b.Build(opts...)
}

// ToBitmap returns the set bits as a roaring bitmap.
func (v *BitVector) ToBitmap() *roaring.Bitmap {
	bm := roaring.New()
	buf := make([]uint32, 0, 256)
	for pos := range v.SetBits() {
		buf = append(buf, uint32(pos))
		if len(buf) == cap(buf) {
			bm.AddMany(buf)
			buf = buf[:0]
		}
	}
	bm.AddMany(buf)
	return bm
}
