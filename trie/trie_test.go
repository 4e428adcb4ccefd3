package trie

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var sampleKeys = []string{"bbc", "able", "abc", "abcde", "can"}

var tailModes = []struct {
	name string
	opts []Option
}{
	{"plain", nil},
	{"tailtrie", []Option{WithTailTrie(true)}},
}

func mustBuild(t testing.TB, keys []string, opts ...Option) *Trie {
	t.Helper()
	tr, err := Build(keys, opts...)
	require.NoError(t, err)
	return tr
}

func decodeAll(t *testing.T, tr *Trie, ids []ID) []string {
	t.Helper()
	out := make([]string, len(ids))
	for i, id := range ids {
		key, ok := tr.DecodeKey(id)
		require.True(t, ok, "DecodeKey(%d)", id)
		out[i] = key
	}
	return out
}

func TestSampleQueries(t *testing.T) {
	for _, mode := range tailModes {
		t.Run(mode.name, func(t *testing.T) {
			tr := mustBuild(t, sampleKeys, mode.opts...)
			require.True(t, tr.Ready())
			assert.Equal(t, 5, tr.Len())

			matches := tr.CommonPrefixMatches("abcde", 0)
			require.Len(t, matches, 2)
			assert.Equal(t, 3, matches[0].Depth)
			assert.Equal(t, 5, matches[1].Depth)
			assert.Equal(t, []string{"abc", "abcde"},
				decodeAll(t, tr, []ID{matches[0].ID, matches[1].ID}))

			ids := tr.CommonPrefixSearch("abcde", 0)
			assert.Equal(t, []ID{matches[0].ID, matches[1].ID}, ids)

			assert.Equal(t, []string{"abc", "abcde", "able"},
				decodeAll(t, tr, tr.PredictiveSearch("ab", 0)))
		})
	}
}

func TestIDsFollowLevelOrder(t *testing.T) {
	tr := mustBuild(t, sampleKeys)
	want := map[string]ID{"bbc": 0, "can": 1, "abc": 2, "able": 3, "abcde": 4}
	for key, id := range want {
		got, ok := tr.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, id, got, key)
	}
}

func TestLookupMisses(t *testing.T) {
	misses := []string{"", "a", "ab", "abcd", "abcdef", "abl", "ables", "b", "bb", "bbcx", "bbd", "c", "ca", "cann", "zzz"}
	for _, mode := range tailModes {
		t.Run(mode.name, func(t *testing.T) {
			tr := mustBuild(t, sampleKeys, mode.opts...)
			for _, key := range misses {
				_, ok := tr.Lookup(key)
				assert.False(t, ok, "Lookup(%q)", key)
				assert.False(t, tr.Contains(key))
			}
		})
	}
}

func TestCommonPrefixThroughTail(t *testing.T) {
	tr := mustBuild(t, sampleKeys)

	matches := tr.CommonPrefixMatches("bbcx", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Depth)
	assert.Equal(t, []string{"bbc"}, decodeAll(t, tr, []ID{matches[0].ID}))

	assert.Empty(t, tr.CommonPrefixSearch("bb", 0))
	assert.Empty(t, tr.CommonPrefixSearch("", 0))
}

func TestPredictiveSearch(t *testing.T) {
	tests := []struct {
		prefix string
		limit  int
		want   []string
	}{
		{"a", 0, []string{"abc", "abcde", "able"}},
		{"ab", 2, []string{"abc", "abcde"}},
		{"abcd", 0, []string{"abcde"}},
		{"b", 0, []string{"bbc"}},
		{"bb", 0, []string{"bbc"}},
		{"bbc", 0, []string{"bbc"}},
		{"bbcd", 0, nil},
		{"bd", 0, nil},
		{"ca", 1, []string{"can"}},
		{"x", 0, nil},
	}
	for _, mode := range tailModes {
		tr := mustBuild(t, sampleKeys, mode.opts...)
		for _, tt := range tests {
			got := decodeAll(t, tr, tr.PredictiveSearch(tt.prefix, tt.limit))
			if tt.want == nil {
				assert.Empty(t, got, "%s: %q", mode.name, tt.prefix)
				continue
			}
			assert.Equal(t, tt.want, got, "%s: %q", mode.name, tt.prefix)
		}

		all := decodeAll(t, tr, tr.PredictiveSearch("", 0))
		assert.ElementsMatch(t, sampleKeys, all)
		assert.Len(t, tr.PredictiveSearch("", 3), 3)
	}
}

func TestAllAndKeys(t *testing.T) {
	tr := mustBuild(t, sampleKeys)

	seen := map[ID]string{}
	for id, key := range tr.All() {
		seen[id] = key
	}
	require.Len(t, seen, 5)
	for id, key := range seen {
		got, ok := tr.Lookup(key)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
	assert.ElementsMatch(t, sampleKeys, tr.Keys())

	n := 0
	for range tr.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestDecodeKeyOutOfRange(t *testing.T) {
	tr := mustBuild(t, sampleKeys)
	_, ok := tr.DecodeKey(5)
	assert.False(t, ok)
}

func TestEmptyTrie(t *testing.T) {
	for _, keys := range [][]string{nil, {}} {
		tr := mustBuild(t, keys, WithTailTrie(true))
		assert.False(t, tr.Ready())
		assert.Equal(t, 0, tr.Len())
		_, ok := tr.Lookup("")
		assert.False(t, ok)
		_, ok = tr.Lookup("a")
		assert.False(t, ok)
		assert.Empty(t, tr.CommonPrefixSearch("abc", 0))
		assert.Empty(t, tr.PredictiveSearch("", 0))
		_, ok = tr.DecodeKey(0)
		assert.False(t, ok)
		assert.Empty(t, tr.Keys())
		assert.Equal(t, StepStop, tr.NewCursor("a").Next().Kind)
	}
}

func TestEdgeCaseKeySets(t *testing.T) {
	sets := map[string][]string{
		"single long key":    {"hello"},
		"single short key":   {"a"},
		"empty key":          {""},
		"empty and others":   {"", "a", "ab", "abc"},
		"chain":              {"a", "aa", "aaa", "aaaa", "aaaaa"},
		"shared suffixes":    {"running", "jumping", "singing", "ring", "king"},
		"binary bytes":       {"\x00", "\x00\x00", "\xff\x00\x01", "\x00\xff", "a\x00b"},
		"duplicates":         {"x", "x", "y", "x", "y"},
		"two-byte tails":     {"ab", "cd", "ef"},
		"prefix of tail key": {"abcdef", "abc"},
	}
	for name, keys := range sets {
		for _, mode := range tailModes {
			t.Run(name+"/"+mode.name, func(t *testing.T) {
				tr := mustBuild(t, keys, mode.opts...)
				checkRoundTrip(t, tr, keys)
			})
		}
	}
}

// checkRoundTrip verifies that every key is found, ids are dense and decoding
// restores the key.
func checkRoundTrip(t *testing.T, tr *Trie, keys []string) {
	t.Helper()
	distinct := slices.Compact(slices.Sorted(slices.Values(keys)))
	require.Equal(t, len(distinct), tr.Len())

	seen := make([]bool, tr.Len())
	for _, key := range distinct {
		id, ok := tr.Lookup(key)
		require.True(t, ok, "Lookup(%q)", key)
		require.Less(t, int(id), tr.Len())
		require.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true

		got, ok := tr.DecodeKey(id)
		require.True(t, ok)
		require.Equal(t, key, got)

		pm := tr.CommonPrefixMatches(key, 0)
		require.NotEmpty(t, pm)
		last := pm[len(pm)-1]
		require.Equal(t, id, last.ID)
		require.Equal(t, len(key), last.Depth)

		require.Contains(t, tr.PredictiveSearch(key, 0), id)
	}
}

func randomKeys(r *rand.Rand, n int, alphabet string, maxLen int) []string {
	keys := make([]string, n)
	for i := range keys {
		b := make([]byte, r.IntN(maxLen+1))
		for j := range b {
			b[j] = alphabet[r.IntN(len(alphabet))]
		}
		keys[i] = string(b)
	}
	return keys
}

func TestRandomRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	for _, tc := range []struct {
		n        int
		alphabet string
		maxLen   int
	}{
		{50, "ab", 6},
		{500, "abc", 10},
		{2000, "abcdefghijklmnopqrstuvwxyz", 12},
		{300, "\x00\x01\xfe\xff", 8},
	} {
		keys := randomKeys(r, tc.n, tc.alphabet, tc.maxLen)
		for _, mode := range tailModes {
			tr := mustBuild(t, keys, mode.opts...)
			checkRoundTrip(t, tr, keys)
		}
	}
}

func TestTailTrieMatchesPlain(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	keys := randomKeys(r, 1500, "abcd", 14)
	queries := append(randomKeys(r, 300, "abcd", 16), keys[:200]...)

	plain := mustBuild(t, keys)
	compact := mustBuild(t, keys, WithTailTrie(true))
	require.False(t, plain.TailTrie())
	require.True(t, compact.TailTrie())

	for _, q := range queries {
		id1, ok1 := plain.Lookup(q)
		id2, ok2 := compact.Lookup(q)
		require.Equal(t, ok1, ok2, q)
		require.Equal(t, id1, id2, q)
		require.Equal(t, plain.CommonPrefixMatches(q, 0), compact.CommonPrefixMatches(q, 0), q)
		require.Equal(t, plain.PredictiveSearch(q, 0), compact.PredictiveSearch(q, 0), q)
	}
	for id := range ID(plain.Len()) {
		k1, _ := plain.DecodeKey(id)
		k2, _ := compact.DecodeKey(id)
		require.Equal(t, k1, k2)
	}
}

func TestTailTrieSharedSuffixes(t *testing.T) {
	tests := map[string][]string{
		"tails sort differently reversed": {"abb", "b", "babb"},
		"common ing suffix":               {"running", "jumping", "singing", "ring", "king"},
		"duplicate tails":                 {"xab", "yab", "zab", "xcd", "ycd"},
	}
	for name, keys := range tests {
		t.Run(name, func(t *testing.T) {
			plain := mustBuild(t, keys)
			compact := mustBuild(t, keys, WithTailTrie(true))
			assert.Equal(t, plain.Len(), compact.Len())

			for _, key := range keys {
				want, ok := plain.Lookup(key)
				require.True(t, ok, key)
				got, ok := compact.Lookup(key)
				require.True(t, ok, key)
				assert.Equal(t, want, got, key)

				decoded, ok := compact.DecodeKey(got)
				require.True(t, ok)
				assert.Equal(t, key, decoded)
			}
			assert.Equal(t, plain.Keys(), compact.Keys())
		})
	}
}

func TestCursorSteps(t *testing.T) {
	tr := mustBuild(t, sampleKeys)

	c := tr.NewCursor("abcde")
	var kinds []StepKind
	for {
		st := c.Next()
		kinds = append(kinds, st.Kind)
		if st.Kind == StepStop {
			break
		}
	}
	assert.Equal(t, []StepKind{StepNone, StepNone, StepNone, StepMatch, StepNone, StepMatch, StepStop}, kinds)
	assert.Equal(t, 5, c.Offset())

	c = tr.NewCursor("zz")
	assert.Equal(t, StepStop, c.Next().Kind)
	assert.Equal(t, "match", StepMatch.String())
}

func TestConcurrentQueries(t *testing.T) {
	r := rand.New(rand.NewPCG(15, 16))
	keys := randomKeys(r, 3000, "abcdef", 10)
	tr := mustBuild(t, keys, WithTailTrie(true))

	var g errgroup.Group
	for w := range 8 {
		g.Go(func() error {
			for i := w; i < len(keys); i += 8 {
				id, ok := tr.Lookup(keys[i])
				if !ok {
					return assert.AnError
				}
				if got, _ := tr.DecodeKey(id); got != keys[i] {
					return assert.AnError
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestBuildDoesNotModifyInput(t *testing.T) {
	keys := []string{"c", "a", "b", "a"}
	_ = mustBuild(t, keys)
	assert.Equal(t, []string{"c", "a", "b", "a"}, keys)
}

func TestStats(t *testing.T) {
	tr := mustBuild(t, sampleKeys)
	s := tr.Stats()
	assert.Equal(t, 5, s.Keys)
	assert.Equal(t, uint64(10), s.Nodes)
	assert.Equal(t, 9, s.Edges)
	assert.Equal(t, 2, s.Tails)
	assert.Equal(t, tr.SizeInBytes(), s.TotalSize)
}
