package popcount

import (
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountMatchesSWAR(t *testing.T) {
	tests := []struct {
		name string
		x    uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"all", ^uint64(0), 64},
		{"high bit", 1 << 63, 1},
		{"alternating", 0xAAAAAAAAAAAAAAAA, 32},
		{"low byte", 0xFF, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.x))
			assert.Equal(t, tt.want, SWAR(tt.x))
		})
	}
}

func TestSWARRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10000; i++ {
		x := r.Uint64()
		if got, want := SWAR(x), uint64(bits.OnesCount64(x)); got != want {
			t.Fatalf("SWAR(%#x) = %d, want %d", x, got, want)
		}
	}
}

func TestBytesCumulative(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		x := r.Uint64()
		counts := Bytes(x)
		var sum uint64
		for k := 0; k < 8; k++ {
			sum += uint64(bits.OnesCount8(uint8(x >> (8 * k))))
			assert.Equal(t, sum, (counts>>(8*k))&0xFF, "byte %d of %#x", k, x)
		}
	}
}

func TestParseKernel(t *testing.T) {
	k, ok := ParseKernel(" SWAR ")
	assert.True(t, ok)
	assert.Equal(t, KernelSWAR, k)

	k, ok = ParseKernel("hardware")
	assert.True(t, ok)
	assert.Equal(t, KernelHardware, k)

	_, ok = ParseKernel("avx9000")
	assert.False(t, ok)

	assert.Equal(t, "swar", KernelSWAR.String())
	assert.Equal(t, "unknown", Kernel(42).String())
}

func BenchmarkCount(b *testing.B) {
	x := uint64(0x0123456789ABCDEF)
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += Count(x + uint64(i))
	}
	_ = sink
}

func BenchmarkSWAR(b *testing.B) {
	x := uint64(0x0123456789ABCDEF)
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += SWAR(x + uint64(i))
	}
	_ = sink
}

func TestActiveKernelIsKnown(t *testing.T) {
	assert.NotEqual(t, "unknown", Active().String())
	if Active() == KernelSWAR {
		assert.Equal(t, SWAR(0xF0F0), Count(0xF0F0))
	}
}
