package persistence

import "unsafe"

// alignedBuffer returns n bytes backed by a []uint64, so decoders can view
// the result as words without copying.
func alignedBuffer(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

func isAligned(b []byte) bool {
	return len(b) == 0 || uintptr(unsafe.Pointer(unsafe.SliceData(b)))%8 == 0
}

// realign returns b itself when it is word aligned and an aligned copy
// otherwise.
func realign(b []byte) []byte {
	if isAligned(b) {
		return b
	}
	out := alignedBuffer(len(b))
	copy(out, b)
	return out
}
