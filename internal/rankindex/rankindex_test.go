package rankindex

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	require.Equal(t, uintptr(Size), unsafe.Sizeof(Index{}))

	for k := 1; k < NumRel; k++ {
		assert.Equal(t, Offset(k)+Width(k), Offset(k+1), "counter %d must be adjacent to %d", k, k+1)
	}
	assert.LessOrEqual(t, Offset(NumRel)+Width(NumRel), uint(64))
}

func TestWidthsHoldBounds(t *testing.T) {
	for k := 1; k <= NumRel; k++ {
		maxCount := uint64(64 * k)
		assert.Less(t, maxCount, uint64(1)<<Width(k), "rel%d", k)
	}
}

func TestSetRelIsolation(t *testing.T) {
	var x Index
	x.SetAbs(123456)
	for k := 1; k <= NumRel; k++ {
		x.SetRel(k, uint64(64*k))
	}

	assert.Equal(t, uint64(123456), x.Abs())
	for k := 1; k <= NumRel; k++ {
		assert.Equal(t, uint64(64*k), x.Rel(k), "rel%d", k)
		assert.Equal(t, x.Rel(k), x.RelFor(uint64(k)), "RelFor(%d)", k)
	}
	assert.Equal(t, uint64(0), x.RelFor(0))

	// Overwrite one counter, neighbours must survive.
	x.SetRel(4, 3)
	assert.Equal(t, uint64(3), x.Rel(4))
	assert.Equal(t, uint64(192), x.Rel(3))
	assert.Equal(t, uint64(320), x.Rel(5))
}

func TestSetRelTruncates(t *testing.T) {
	var x Index
	x.SetRel(2, 0x1FF) // 9 bits into an 8-bit field
	assert.Equal(t, uint64(0xFF), x.Rel(2))
	assert.Equal(t, uint64(0), x.Rel(1))
	assert.Equal(t, uint64(0), x.Rel(3))
}

func TestCounterRange(t *testing.T) {
	var x Index
	assert.Panics(t, func() { x.SetRel(0, 1) })
	assert.Panics(t, func() { _ = x.Rel(8) })
}

func TestFromParts(t *testing.T) {
	var x Index
	x.SetAbs(7)
	x.SetRel(7, 448)
	y := FromParts(uint32(x.Abs()), x.Packed())
	assert.Equal(t, x, y)
}
