package trie

import "strings"

// StepKind classifies one traversal step.
type StepKind uint8

const (
	// StepNone means the node reached is not the end of a key, but traversal
	// can continue.
	StepNone StepKind = iota
	// StepMatch means a stored key ends at this step.
	StepMatch
	// StepStop means the trie has no further match for the input.
	StepStop
)

func (k StepKind) String() string {
	switch k {
	case StepNone:
		return "none"
	case StepMatch:
		return "match"
	case StepStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Step is the outcome of Cursor.Next. ID and Depth are set for StepMatch;
// Depth is the number of input bytes the matched key covers.
type Step struct {
	Kind  StepKind
	ID    ID
	Depth int
}

// Cursor walks the trie along an input string one node at a time.
type Cursor struct {
	t      *Trie
	key    string
	pos    uint64
	zeros  uint64
	keyPos int
}

// NewCursor returns a cursor positioned at the root.
func (t *Trie) NewCursor(key string) *Cursor {
	return &Cursor{t: t, key: key, pos: rootPos, zeros: rootPos}
}

// Offset returns the number of input bytes consumed.
func (c *Cursor) Offset() int {
	return min(c.keyPos, len(c.key))
}

// Next examines the current node and descends by the next input byte.
func (c *Cursor) Next() Step {
	t := c.t
	if !t.Ready() || c.pos == noNode {
		return Step{Kind: StepStop}
	}

	node := c.pos - c.zeros
	st := Step{Kind: StepNone}
	if t.tail.Get(node) {
		if tail := t.tailAt(node); strings.HasPrefix(c.key[c.keyPos:], tail) {
			c.keyPos += len(tail)
			st = Step{Kind: StepMatch, ID: t.nodeID(node)}
		}
	} else if t.terminal.Get(node) {
		st = Step{Kind: StepMatch, ID: t.nodeID(node)}
	}

	if c.keyPos < len(c.key) {
		c.pos, c.zeros = t.child(c.key[c.keyPos], c.pos, c.zeros)
	} else {
		c.pos = noNode
	}
	c.keyPos++

	if st.Kind == StepNone && c.pos == noNode {
		return Step{Kind: StepStop}
	}
	st.Depth = c.keyPos - 1
	return st
}
