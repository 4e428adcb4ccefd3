package trie

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
	"github.com/hupe1980/succinct/internal/packed"
)

// maxNesting bounds tail-trie recursion when decoding untrusted input.
const maxNesting = 4

const (
	flagPlainTails byte = 0
	flagTrieTails  byte = 1
)

// SizeInBytes returns the encoded size.
func (t *Trie) SizeInBytes() int64 {
	return t.louds.SizeInBytes() + t.terminal.SizeInBytes() + t.tail.SizeInBytes() +
		8 + t.edges.SizeInBytes() + 1 + t.tails.sizeInBytes()
}

// WriteTo encodes the trie:
//
//	BitVector louds, terminal, tail
//	u64 numKeys
//	<container> edges (u8)
//	u8  tail kind (0 plain, 1 nested trie)
//	plain: u64 count, count × <container> bytes
//	trie:  Trie nested, packed ids
func (t *Trie) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, bv := range []*bitvector.BitVector{t.louds, t.terminal, t.tail} {
		n, err := bv.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}

	n, err := writeU64(w, t.numKeys)
	written += n
	if err != nil {
		return written, err
	}
	n, err = t.edges.WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}

	flag := flagPlainTails
	if t.TailTrie() {
		flag = flagTrieTails
	}
	m, err := w.Write([]byte{flag})
	written += int64(m)
	if err != nil {
		return written, err
	}

	n, err = t.tails.writeTo(w)
	return written + n, err
}

func writeU64(w io.Writer, v uint64) (int64, error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// Load decodes a trie from r. On error no trie is returned.
func Load(r io.Reader) (*Trie, error) {
	return load(r, 0)
}

func load(r io.Reader, depth int) (*Trie, error) {
	if depth > maxNesting {
		return nil, formatErrorf("tails", "tail tries nested deeper than %d", maxNesting)
	}

	t := &Trie{}
	var err error
	if t.louds, err = bitvector.Load(r); err != nil {
		return nil, sectionError("louds", err)
	}
	if t.terminal, err = bitvector.Load(r); err != nil {
		return nil, sectionError("terminal", err)
	}
	if t.tail, err = bitvector.Load(r); err != nil {
		return nil, sectionError("tail", err)
	}

	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, sectionError("keys", fmt.Errorf("%w: %w", ErrTruncated, err))
	}
	t.numKeys = binary.LittleEndian.Uint64(hdr[:])

	if _, err := t.edges.ReadFrom(r); err != nil {
		return nil, sectionError("edges", err)
	}

	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		return nil, sectionError("tails", fmt.Errorf("%w: %w", ErrTruncated, err))
	}

	switch flag[0] {
	case flagPlainTails:
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, sectionError("tails", fmt.Errorf("%w: %w", ErrTruncated, err))
		}
		count := binary.LittleEndian.Uint64(hdr[:])
		if count != t.tail.Ones() {
			return nil, formatErrorf("tails", "%d tails for %d tail nodes", count, t.tail.Ones())
		}
		p := &plainTails{strs: make([]container.Vector[byte], count)}
		for i := range p.strs {
			if _, err := p.strs[i].ReadFrom(r); err != nil {
				return nil, sectionError("tails", err)
			}
		}
		t.tails = p
	case flagTrieTails:
		nested, err := load(r, depth+1)
		if err != nil {
			return nil, sectionError("tails", err)
		}
		var ids packed.Array
		if _, err := ids.ReadFrom(r); err != nil {
			return nil, sectionError("tail ids", err)
		}
		t.tails = &trieTails{nested: nested, ids: &ids}
	default:
		return nil, formatErrorf("tails", "unknown tail kind %d", flag[0])
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Map decodes a trie at the start of b, aliasing b where alignment allows.
// b must outlive the trie and must not be modified. It returns the number of
// bytes consumed.
func Map(b []byte) (*Trie, int, error) {
	return mapAt(b, 0)
}

func mapAt(b []byte, depth int) (*Trie, int, error) {
	if depth > maxNesting {
		return nil, 0, formatErrorf("tails", "tail tries nested deeper than %d", maxNesting)
	}

	t := &Trie{}
	off := 0
	for _, s := range []struct {
		name string
		dst  **bitvector.BitVector
	}{
		{"louds", &t.louds},
		{"terminal", &t.terminal},
		{"tail", &t.tail},
	} {
		bv, n, err := bitvector.Map(b[off:])
		if err != nil {
			return nil, 0, sectionError(s.name, err)
		}
		*s.dst = bv
		off += n
	}

	if len(b)-off < 8 {
		return nil, 0, sectionError("keys", ErrTruncated)
	}
	t.numKeys = binary.LittleEndian.Uint64(b[off:])
	off += 8

	n, err := t.edges.Map(b[off:])
	if err != nil {
		return nil, 0, sectionError("edges", err)
	}
	off += n

	if len(b)-off < 1 {
		return nil, 0, sectionError("tails", ErrTruncated)
	}
	flag := b[off]
	off++

	switch flag {
	case flagPlainTails:
		if len(b)-off < 8 {
			return nil, 0, sectionError("tails", ErrTruncated)
		}
		count := binary.LittleEndian.Uint64(b[off:])
		off += 8
		if count != t.tail.Ones() {
			return nil, 0, formatErrorf("tails", "%d tails for %d tail nodes", count, t.tail.Ones())
		}
		p := &plainTails{strs: make([]container.Vector[byte], count)}
		for i := range p.strs {
			n, err := p.strs[i].Map(b[off:])
			if err != nil {
				return nil, 0, sectionError("tails", err)
			}
			off += n
		}
		t.tails = p
	case flagTrieTails:
		nested, n, err := mapAt(b[off:], depth+1)
		if err != nil {
			return nil, 0, sectionError("tails", err)
		}
		off += n
		var ids packed.Array
		n, err = ids.Map(b[off:])
		if err != nil {
			return nil, 0, sectionError("tail ids", err)
		}
		off += n
		t.tails = &trieTails{nested: nested, ids: &ids}
	default:
		return nil, 0, formatErrorf("tails", "unknown tail kind %d", flag)
	}

	if err := t.validate(); err != nil {
		return nil, 0, err
	}
	return t, off, nil
}

// validate checks the shape invariants that navigation relies on.
func (t *Trie) validate() error {
	nodes := t.terminal.Len()
	edges := uint64(t.edges.Len())

	if t.tail.Len() != nodes {
		return formatErrorf("tail", "%d flags for %d nodes", t.tail.Len(), nodes)
	}
	if (nodes == 0) != (t.numKeys == 0) || (nodes > 0 && nodes != edges+1) {
		return formatErrorf("louds", "%d nodes, %d edges, %d keys", nodes, edges, t.numKeys)
	}
	if t.louds.Len() != 2+edges+nodes || t.louds.Ones() != nodes+1 {
		return formatErrorf("louds", "%d bits with %d ones for %d nodes", t.louds.Len(), t.louds.Ones(), nodes)
	}
	if err := t.checkShape(); err != nil {
		return err
	}
	if t.terminal.Ones() != t.numKeys {
		return formatErrorf("terminal", "%d terminals for %d keys", t.terminal.Ones(), t.numKeys)
	}
	if uint64(t.tails.count()) != t.tail.Ones() {
		return formatErrorf("tails", "%d tails for %d tail nodes", t.tails.count(), t.tail.Ones())
	}
	if tt, ok := t.tails.(*trieTails); ok {
		limit := uint64(tt.nested.Len())
		for i := range tt.ids.Len() {
			if id := tt.ids.Get(i); id >= limit {
				return formatErrorf("tail ids", "id %d out of range %d", id, limit)
			}
		}
	}
	return nil
}

// checkShape verifies that louds encodes a level-order tree: the super-root
// list is a single edge, every edge points to a node numbered after the
// list holding it, and tail nodes are terminal leaves. Navigation only
// terminates on such input.
func (t *Trie) checkShape() error {
	n := t.louds.Len()
	if n < rootPos || t.louds.Get(0) || !t.louds.Get(1) {
		return formatErrorf("louds", "missing super-root")
	}

	var ones, zeros, listLen uint64
	for i := range n {
		if !t.louds.Get(i) {
			zeros++
			listLen++
			if zeros <= ones {
				return formatErrorf("louds", "edge at bit %d points to node %d from list %d", i, zeros, ones)
			}
			continue
		}
		if ones > 0 {
			node := ones - 1
			leaf := listLen == 0
			if leaf && !t.terminal.Get(node) {
				return formatErrorf("terminal", "leaf %d ends no key", node)
			}
			if t.tail.Get(node) && !leaf {
				return formatErrorf("tail", "tail node %d has children", node)
			}
		}
		ones++
		listLen = 0
	}
	return nil
}
