// Package hash provides the CRC32-Castagnoli checksum used by the
// persistence envelope.
//
// One-shot:
//
//	sum := hash.CRC32C(payload)
//
// Streaming, e.g. while a structure is written section by section:
//
//	h := hash.NewCRC32C()
//	_, _ = trie.WriteTo(io.MultiWriter(w, h))
//	sum := h.Sum32()
package hash
