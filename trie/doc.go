// Package trie implements a static LOUDS trie over byte strings.
//
// A Trie is built once from a batch of keys and is read-only afterwards. The
// tree shape is a level-order unary degree sequence held in a bit vector, so
// navigation uses rank and select instead of pointers. Each stored key gets a
// dense ID in [0, Len()); Lookup and DecodeKey convert between the two.
//
// Single-key branches are cut short: once a subtree holds one key with at least
// two bytes left, the rest of the key is stored as a tail string. With
// WithTailTrie the tails are themselves stored reversed in a nested trie, which
// shares common suffixes.
//
// Queries never allocate on the frozen structure beyond their results and are
// safe for concurrent use.
package trie
