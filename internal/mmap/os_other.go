//go:build !unix && !windows

package mmap

import (
	"io"
	"os"
	"unsafe"
)

// Platforms without mmap read the file into an 8-byte aligned heap buffer.
func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	words := make([]uint64, (size+7)/8)
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), len(words)*8)[:size:size]
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func([]byte) error { return nil }, nil
}

func osAdvise([]byte, AccessPattern) error { return nil }
