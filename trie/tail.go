package trie

import (
	"io"
	"slices"

	"github.com/hupe1980/succinct/internal/container"
	"github.com/hupe1980/succinct/internal/packed"
)

// tailStore holds the suffixes of tail nodes, indexed by tail rank.
type tailStore interface {
	get(i uint64) string
	count() int
	borrowed() bool
	sizeInBytes() int64
	writeTo(w io.Writer) (int64, error)
}

// plainTails stores every tail verbatim.
type plainTails struct {
	strs []container.Vector[byte]
}

func newPlainTails(tails []string) *plainTails {
	p := &plainTails{strs: make([]container.Vector[byte], len(tails))}
	for i, s := range tails {
		p.strs[i] = container.FromSlice([]byte(s))
	}
	return p
}

func (p *plainTails) get(i uint64) string {
	return string(p.strs[i].Slice())
}

func (p *plainTails) count() int {
	return len(p.strs)
}

func (p *plainTails) borrowed() bool {
	for i := range p.strs {
		if p.strs[i].Borrowed() {
			return true
		}
	}
	return false
}

func (p *plainTails) sizeInBytes() int64 {
	n := int64(8)
	for i := range p.strs {
		n += p.strs[i].SizeInBytes()
	}
	return n
}

func (p *plainTails) writeTo(w io.Writer) (int64, error) {
	written, err := writeU64(w, uint64(len(p.strs)))
	if err != nil {
		return written, err
	}
	for i := range p.strs {
		n, err := p.strs[i].WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// trieTails stores each tail reversed in a nested trie; ids maps tail rank to
// the nested key id.
type trieTails struct {
	nested *Trie
	ids    *packed.Array
}

func newTrieTails(tails []string, cfg config) (*trieTails, error) {
	reversed := make([]string, len(tails))
	for i, s := range tails {
		reversed[i] = reverse(s)
	}

	// The nested trie keeps plain tails; a single reversed key would otherwise
	// become a root tail again and never shrink.
	nestedCfg := cfg
	nestedCfg.tailTrie = false
	nested, err := build(sortedUnique(slices.Clone(reversed)), nestedCfg)
	if err != nil {
		return nil, err
	}

	ids, err := packed.New(len(tails), packed.WidthFor(uint64(nested.Len())))
	if err != nil {
		return nil, err
	}
	for i, r := range reversed {
		id, ok := nested.Lookup(r)
		if !ok {
			return nil, formatErrorf("tails", "tail %d missing from nested trie", i)
		}
		ids.Set(i, uint64(id))
	}
	return &trieTails{nested: nested, ids: ids}, nil
}

func (p *trieTails) get(i uint64) string {
	s, _ := p.nested.DecodeKey(ID(p.ids.Get(int(i))))
	return reverse(s)
}

func (p *trieTails) count() int {
	return p.ids.Len()
}

func (p *trieTails) borrowed() bool {
	return p.nested.Borrowed() || p.ids.Borrowed()
}

func (p *trieTails) sizeInBytes() int64 {
	return p.nested.SizeInBytes() + p.ids.SizeInBytes()
}

func (p *trieTails) writeTo(w io.Writer) (int64, error) {
	written, err := p.nested.WriteTo(w)
	if err != nil {
		return written, err
	}
	n, err := p.ids.WriteTo(w)
	return written + n, err
}

func reverse(s string) string {
	b := []byte(s)
	slices.Reverse(b)
	return string(b)
}
