package trie

import (
	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
)

// ID identifies a stored key. IDs are dense in [0, Len()).
type ID uint64

// noNode marks a failed child lookup in the (pos, zeros) coordinates.
const noNode = ^uint64(0)

// rootPos is the louds position of the root's child list. The root's zeros
// coordinate has the same value.
const rootPos = 2

// Trie is an immutable LOUDS trie.
//
// Nodes are addressed by a (pos, zeros) pair: pos is the start of the node's
// child list in louds and zeros is one more than the number of zeros before
// pos. pos-zeros is the node number used to index terminal and tail.
type Trie struct {
	louds    *bitvector.BitVector
	terminal *bitvector.BitVector
	tail     *bitvector.BitVector
	edges    container.Vector[uint8]
	tails    tailStore
	numKeys  uint64
}

// Len returns the number of distinct keys.
func (t *Trie) Len() int {
	return int(t.numKeys)
}

// Ready reports whether the trie holds at least one key.
func (t *Trie) Ready() bool {
	return t.numKeys > 0
}

// TailTrie reports whether tails are stored in a nested trie.
func (t *Trie) TailTrie() bool {
	_, ok := t.tails.(*trieTails)
	return ok
}

// Borrowed reports whether any part of the trie aliases a mapped region.
func (t *Trie) Borrowed() bool {
	return t.louds.Borrowed() || t.terminal.Borrowed() || t.tail.Borrowed() ||
		t.edges.Borrowed() || t.tails.borrowed()
}

// Stats describes the size of a trie.
type Stats struct {
	Keys      int
	Nodes     uint64
	Edges     int
	Tails     int
	TailTrie  bool
	LoudsSize int64
	FlagsSize int64
	EdgesSize int64
	TailsSize int64
	TotalSize int64
}

// Stats returns size information.
func (t *Trie) Stats() Stats {
	s := Stats{
		Keys:      t.Len(),
		Nodes:     t.terminal.Len(),
		Edges:     t.edges.Len(),
		Tails:     t.tails.count(),
		TailTrie:  t.TailTrie(),
		LoudsSize: t.louds.SizeInBytes(),
		FlagsSize: t.terminal.SizeInBytes() + t.tail.SizeInBytes(),
		EdgesSize: t.edges.SizeInBytes(),
		TailsSize: t.tails.sizeInBytes(),
	}
	s.TotalSize = t.SizeInBytes()
	return s
}

// child returns the coordinates of the child reached by byte c, or noNode.
func (t *Trie) child(c byte, pos, zeros uint64) (uint64, uint64) {
	for ; ; pos, zeros = pos+1, zeros+1 {
		if t.louds.Get(pos) {
			return noNode, zeros
		}
		if t.edges.At(int(zeros-2)) == c {
			next, _ := t.louds.Select1(zeros - 1)
			next++
			return next, next - zeros + 1
		}
	}
}

// parent moves to the incoming edge of the node and returns its label. The
// returned pos is 0 once the root has been left.
func (t *Trie) parent(pos, zeros uint64) (c byte, ppos, pzeros uint64) {
	pzeros = pos - zeros + 1
	ppos, _ = t.louds.Select0(pzeros - 1)
	if pzeros >= 2 {
		c = t.edges.At(int(pzeros - 2))
	}
	return c, ppos, pzeros
}

func (t *Trie) nodeID(node uint64) ID {
	return ID(t.terminal.Rank1(node))
}

// tailAt returns the tail of a node whose tail bit is set.
func (t *Trie) tailAt(node uint64) string {
	return t.tails.get(t.tail.Rank1(node))
}
