package hash

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// UpdateCRC32C extends sum with data, so sections can be checksummed
// without concatenating them.
func UpdateCRC32C(sum uint32, data []byte) uint32 {
	return crc32.Update(sum, castagnoli, data)
}

// NewCRC32C returns a streaming Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}
