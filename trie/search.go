package trie

import (
	"iter"
	"slices"
	"strings"
)

// Match is a common-prefix result: the key id and the length of the input
// prefix it matched.
type Match struct {
	ID    ID
	Depth int
}

// Lookup returns the id of key.
func (t *Trie) Lookup(key string) (ID, bool) {
	c := t.NewCursor(key)
	for c.keyPos <= len(key) {
		st := c.Next()
		if st.Kind == StepStop {
			return 0, false
		}
		if c.keyPos == len(key)+1 && st.Kind == StepMatch {
			return st.ID, true
		}
	}
	return 0, false
}

// Contains reports whether key is stored.
func (t *Trie) Contains(key string) bool {
	_, ok := t.Lookup(key)
	return ok
}

// CommonPrefixSearch returns the ids of stored keys that are prefixes of s,
// shortest first. A limit of 0 means no limit.
func (t *Trie) CommonPrefixSearch(s string, limit int) []ID {
	var ids []ID
	for m := range t.prefixes(s) {
		ids = append(ids, m.ID)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids
}

// CommonPrefixMatches is CommonPrefixSearch that also reports each match's
// length.
func (t *Trie) CommonPrefixMatches(s string, limit int) []Match {
	var out []Match
	for m := range t.prefixes(s) {
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (t *Trie) prefixes(s string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		c := t.NewCursor(s)
		for {
			st := c.Next()
			switch st.Kind {
			case StepStop:
				return
			case StepMatch:
				if !yield(Match{ID: st.ID, Depth: st.Depth}) {
					return
				}
			}
		}
	}
}

// PredictiveSearch returns the ids of stored keys starting with prefix in
// depth-first LOUDS order. A limit of 0 means no limit.
func (t *Trie) PredictiveSearch(prefix string, limit int) []ID {
	var ids []ID
	t.predictive(prefix, func(id ID) bool {
		ids = append(ids, id)
		return limit <= 0 || len(ids) < limit
	})
	return ids
}

// Predictive yields the ids PredictiveSearch would return, lazily.
func (t *Trie) Predictive(prefix string) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		t.predictive(prefix, yield)
	}
}

func (t *Trie) predictive(prefix string, yield func(ID) bool) {
	if !t.Ready() {
		return
	}
	pos, zeros := uint64(rootPos), uint64(rootPos)
	for i := 0; i < len(prefix); i++ {
		node := pos - zeros
		if t.tail.Get(node) {
			if strings.HasPrefix(t.tailAt(node), prefix[i:]) {
				yield(t.nodeID(node))
			}
			return
		}
		pos, zeros = t.child(prefix[i], pos, zeros)
		if pos == noNode {
			return
		}
	}
	t.enumerate(pos, zeros, yield)
}

// enumerate visits every key below the node, depth first. It returns false
// once yield asks to stop.
func (t *Trie) enumerate(pos, zeros uint64, yield func(ID) bool) bool {
	node := pos - zeros
	if t.terminal.Get(node) && !yield(t.nodeID(node)) {
		return false
	}
	for i := uint64(0); !t.louds.Get(pos + i); i++ {
		next, _ := t.louds.Select1(zeros + i - 1)
		next++
		if !t.enumerate(next, next-zeros-i+1, yield) {
			return false
		}
	}
	return true
}

// DecodeKey returns the key with the given id.
func (t *Trie) DecodeKey(id ID) (string, bool) {
	if uint64(id) >= t.numKeys {
		return "", false
	}
	node, _ := t.terminal.Select1(uint64(id))
	pos, _ := t.louds.Select1(node)
	pos++
	zeros := pos - node

	var buf []byte
	for {
		var c byte
		c, pos, zeros = t.parent(pos, zeros)
		if pos == 0 {
			break
		}
		buf = append(buf, c)
	}
	slices.Reverse(buf)
	if t.tail.Get(node) {
		buf = append(buf, t.tailAt(node)...)
	}
	return string(buf), true
}

// All yields every key with its id in depth-first order.
func (t *Trie) All() iter.Seq2[ID, string] {
	return func(yield func(ID, string) bool) {
		t.predictive("", func(id ID) bool {
			key, _ := t.DecodeKey(id)
			return yield(id, key)
		})
	}
}

// Keys returns all keys in depth-first order.
func (t *Trie) Keys() []string {
	keys := make([]string, 0, t.Len())
	for _, k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}
