//go:build arm64

package popcount

import "golang.org/x/sys/cpu"

func init() {
	// CNT is part of the base ASIMD profile.
	hasPOPCNT = cpu.ARM64.HasASIMD
	initKernel()
}
