// Package succinct provides compact, immutable string dictionaries built
// on succinct data structures.
//
// A Dictionary maps a set of keys to dense ids in [0, Len) and back. It is
// backed by a LOUDS trie whose bit vectors answer rank and select in
// constant time, so a dictionary typically needs a fraction of the memory
// of a map[string]uint32 and can be queried straight from a memory-mapped
// file.
//
// # Quick Start
//
//	dict, _ := succinct.Build([]string{"apple", "apricot", "banana"})
//	id, ok := dict.Lookup("apricot")
//	key, _ := dict.Key(id)
//
//	for _, m := range dict.CommonPrefixes("bananas", 0) {
//		fmt.Println(m.ID, m.Depth)
//	}
//	ids := dict.Predictive("ap", 10)
//
// # Persistence
//
// Dictionaries are saved as a self-describing envelope with an optional
// CRC32C and optional lz4 or zstd compression:
//
//	_ = dict.SaveFile("words.sds")
//	dict, _ = succinct.OpenFile("words.sds")
//	defer dict.Close()
//
// Uncompressed envelopes are queried in place from the mapping.
//
// # Catalogs
//
// A Catalog publishes named dictionaries to a blobstore.Store, such as a
// local directory, MinIO or S3:
//
//	cat := succinct.NewCatalog(blobstore.NewLocalStore("/var/lib/dicts"))
//	_ = cat.Publish(ctx, "cities", dict)
//	cities, _ := cat.Open(ctx, "cities")
//
// # Lower-level structures
//
// The bitvector, trie and wavelet packages can be used directly.
// bitvector.BitVector offers rank and select over bits, trie.Trie exposes
// cursors, and wavelet.Matrix answers rank, select, quantile and range
// frequency queries over integer sequences.
//
// # Errors
//
// Absence is reported with a bool. I/O and format failures are errors that
// match ErrNotFound, ErrCorrupt, ErrClosed or ErrOverBudget with errors.Is.
// Querying a closed dictionary panics.
package succinct
