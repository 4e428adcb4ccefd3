// Package persistence frames serialized structures in a self-describing
// envelope.
//
// An envelope is a 32-byte little-endian header followed by the payload:
//
//	[0:4]   magic "SDS1"
//	[4:6]   format version
//	[6]     kind (bit vector, trie, wavelet matrix)
//	[7]     compression (none, LZ4, zstd)
//	[8:12]  flags
//	[12:16] CRC32C of the stored payload
//	[16:24] stored payload length
//	[24:32] raw payload length
//
// Uncompressed payloads start at offset 32, so a payload inside a page
// aligned mapping keeps the 8-byte alignment required by the zero-copy
// decoders. Compressed payloads are inflated into a fresh aligned buffer.
//
// SaveToFile writes files atomically through a temporary file, fsync and
// rename.
package persistence
