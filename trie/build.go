package trie

import (
	"fmt"
	"slices"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
	"golang.org/x/sync/errgroup"
)

// span is a half-open range of sorted keys sharing a prefix.
type span struct {
	left, right int
}

// Build returns a trie holding keys. The input may be unsorted and contain
// duplicates; it is not modified.
func Build(keys []string, opts ...Option) (*Trie, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return build(sortedUnique(slices.Clone(keys)), cfg)
}

func sortedUnique(keys []string) []string {
	slices.Sort(keys)
	return slices.Compact(keys)
}

// build runs the level-order construction over sorted, distinct keys.
func build(keys []string, cfg config) (*Trie, error) {
	var total uint64
	for _, k := range keys {
		total += uint64(len(k))
	}
	// Each key byte adds at most one edge; louds holds two bits per edge
	// plus the root.
	if 2*total+3 > bitvector.MaxLen {
		return nil, fmt.Errorf("%w: %d key bytes", ErrTooLarge, total)
	}

	var louds, terminal, tail bitvector.Builder
	var edges []byte
	var tails []string

	// Synthetic super-root: one edge into the root, then its end marker.
	louds.Push(false)
	louds.Push(true)

	var q, next []span
	if len(keys) > 0 {
		q = append(q, span{0, len(keys)})
	}

	for depth := 0; len(q) > 0; depth++ {
		for _, s := range q {
			cur := keys[s.left]
			if s.left+1 == s.right && depth+1 < len(cur) {
				louds.Push(true)
				terminal.Push(true)
				tail.Push(true)
				tails = append(tails, cur[depth:])
				continue
			}
			tail.Push(false)

			left := s.left
			if depth == len(cur) {
				terminal.Push(true)
				left++
				if left == s.right {
					louds.Push(true)
					continue
				}
			} else {
				terminal.Push(false)
			}

			for left < s.right {
				c := keys[left][depth]
				end := left + 1
				for end < s.right && keys[end][depth] == c {
					end++
				}
				edges = append(edges, c)
				louds.Push(false)
				next = append(next, span{left, end})
				left = end
			}
			louds.Push(true)
		}
		q, next = next, q[:0]
	}

	t := &Trie{
		edges:   container.FromSlice(edges),
		numKeys: uint64(len(keys)),
	}

	var g errgroup.Group
	g.Go(func() error {
		t.louds = louds.Build(bitvector.WithSelect0(), bitvector.WithSelect1())
		return nil
	})
	g.Go(func() error {
		t.terminal = terminal.Build(bitvector.WithSelect1())
		return nil
	})
	g.Go(func() error {
		t.tail = tail.Build()
		return nil
	})
	g.Go(func() error {
		if !cfg.tailTrie || len(tails) == 0 {
			t.tails = newPlainTails(tails)
			return nil
		}
		tt, err := newTrieTails(tails, cfg)
		if err != nil {
			return err
		}
		t.tails = tt
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cfg.logger.Debug("trie built",
		"keys", len(keys),
		"nodes", t.terminal.Len(),
		"edges", len(edges),
		"tails", len(tails),
		"tail_trie", t.TailTrie(),
		"bytes", t.SizeInBytes(),
	)
	return t, nil
}
