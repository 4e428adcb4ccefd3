// Package container provides Vector, the growable, serializable sequence that
// every succinct structure stores its raw words in.
//
// # Wire format
//
// A Vector is encoded as a little-endian u64 element count followed by the raw
// element bytes (count * sizeof(T)). There is no padding: a reader advances by
// exactly 8 + count*sizeof(T) bytes.
//
// # Ownership
//
// A Vector is backed either by an owned Go slice (after Append, Resize or
// ReadFrom) or by a borrowed byte region (after Map). The two cases are explicit
// Source variants. Borrowed vectors are read-only: every mutating method panics,
// and the region must stay valid and unmodified for as long as the vector is in
// use. When the region is not suitably aligned for T, Map falls back to copying
// and the vector becomes owned.
//
// # Element types
//
// T must be a fixed-size type without pointers (integers or plain structs of
// integers). The package only checks this indirectly through unsafe.Sizeof.
package container
