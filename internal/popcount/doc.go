// Package popcount provides the Hamming-weight primitives used by the rank/select
// engine.
//
// # Kernels
//
// Count is the hot-path entry point. It uses math/bits.OnesCount64, which the Go
// compiler lowers to POPCNT (x86-64) or CNT (ARM64) when the CPU supports it.
// SWAR is the portable bit-trick fallback; both produce identical results for
// every input.
//
// The SUCCINCT_POPCOUNT environment variable forces a kernel at start-up:
//
//	SUCCINCT_POPCOUNT=swar     # always use the SWAR kernel
//	SUCCINCT_POPCOUNT=hardware # default
//
// # Byte counts
//
// Bytes returns cumulative per-byte counts packed into one word. Byte k of the
// result holds the number of set bits in bytes 0..k of the input, which is the
// reduction the in-word select needs to locate the byte containing the i-th one.
package popcount
