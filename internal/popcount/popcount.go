package popcount

import (
	"math/bits"
	"os"
	"strings"
)

const (
	m55 = 0x5555555555555555
	m33 = 0x3333333333333333
	m0F = 0x0F0F0F0F0F0F0F0F
	m01 = 0x0101010101010101
)

// Kernel identifies a population-count implementation.
type Kernel uint8

const (
	// KernelHardware uses math/bits (POPCNT/CNT when available).
	KernelHardware Kernel = iota
	// KernelSWAR uses the portable SIMD-within-a-register bit trick.
	KernelSWAR
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelHardware:
		return "hardware"
	case KernelSWAR:
		return "swar"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel name.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardware", "popcnt":
		return KernelHardware, true
	case "swar", "generic":
		return KernelSWAR, true
	default:
		return KernelHardware, false
	}
}

var (
	// active is fixed at init and never written afterwards.
	active Kernel

	// hasPOPCNT is set by the platform-specific init.
	hasPOPCNT bool
)

func initKernel() {
	active = KernelHardware
	if override := os.Getenv("SUCCINCT_POPCOUNT"); override != "" {
		if k, ok := ParseKernel(override); ok {
			active = k
		}
	}
}

// Active returns the kernel selected at start-up.
func Active() Kernel {
	return active
}

// Hardware reports whether the CPU advertises a population-count instruction.
func Hardware() bool {
	return hasPOPCNT
}

// Count returns the number of set bits in x.
func Count(x uint64) uint64 {
	if active == KernelSWAR {
		return SWAR(x)
	}
	return uint64(bits.OnesCount64(x))
}

// SWAR counts set bits with the classic pairwise reduction.
func SWAR(x uint64) uint64 {
	return Bytes(x) >> 56
}

// Bytes returns the cumulative per-byte population counts of x.
//
// Byte k (counting from the least significant byte) of the result holds the
// number of set bits in bytes 0..k of x. The top byte is therefore the total.
func Bytes(x uint64) uint64 {
	x = x - ((x >> 1) & m55)
	x = (x & m33) + ((x >> 2) & m33)
	x = (x + (x >> 4)) & m0F
	return x * m01
}
