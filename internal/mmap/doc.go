// Package mmap maps serialized structures read-only into memory.
//
// A Mapping owns the mapped bytes and unmaps them on Close. Region hands
// out sub-views of a mapping; a region never outlives its parent, so
// structures decoded with Map must be dropped before the Mapping is
// closed.
//
// Unix platforms use mmap(2) with madvise(2) hints. Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Mapped memory starts on a page boundary, which satisfies the 8-byte
// alignment the zero-copy decoders require.
package mmap
