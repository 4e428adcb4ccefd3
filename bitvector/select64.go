package bitvector

import (
	"math/bits"

	"github.com/hupe1980/succinct/internal/popcount"
)

const (
	m01 = 0x0101010101010101
	m80 = 0x8080808080808080
)

// selectTable[r][b] is the position of the r-th set bit of byte b, or 7 when b
// has at most r set bits.
var selectTable = func() (t [8][256]uint8) {
	for b := range 256 {
		r := 0
		for p := range 8 {
			if b>>p&1 == 1 {
				t[r][b] = uint8(p)
				r++
			}
		}
		for ; r < 8; r++ {
			t[r][b] = 7
		}
	}
	return t
}()

// select64 returns base plus the position of the i-th (0-based) set bit of w.
// w must have more than i set bits.
func select64(w, i, base uint64) uint64 {
	counts := popcount.Bytes(w)
	// The high bit of byte k survives iff the cumulative count through byte k
	// exceeds i.
	x := (counts | m80) - (i+1)*m01
	shift := uint64(bits.TrailingZeros64((x & m80) >> 7))
	w >>= shift
	i -= ((counts << 8) >> shift) & 0xFF
	return base + shift + uint64(selectTable[i][w&0xFF])
}
