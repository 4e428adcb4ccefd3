package container

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// ErrBigEndian is returned when running on big-endian systems.
var ErrBigEndian = errors.New("big-endian systems are not supported")

func init() {
	if !isLittleEndian() {
		panic(fmt.Sprintf("succinct/container: %v (GOARCH=%s)", ErrBigEndian, runtime.GOARCH))
	}
}

func isLittleEndian() bool {
	var probe uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}

func aligned[T any](b []byte) bool {
	if len(b) == 0 {
		return true
	}
	var zero T
	return uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) == 0
}

// asBytes reinterprets an element slice as its raw bytes.
func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// asElems reinterprets raw bytes as n elements. b must be aligned for T.
func asElems[T any](b []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
