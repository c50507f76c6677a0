package trie

import (
	"fmt"
	"slices"
)

// ErrNoChild is returned by Child when the requested byte has no edge.
// Callers are expected to check HasChild first.
var ErrNoChild = fmt.Errorf("trie: no child for byte")

// noToken marks a node that does not terminate a vocabulary entry.
const noToken = -1

type node struct {
	children map[byte]int
	parent   int
	token    int
	prob     float64
}

// Trie is a prefix tree keyed by single bytes, mapping byte strings to token
// ids. Nodes live in a flat arena and are addressed by integer handles; the
// parent link is a handle too, so ownership flows strictly root to leaf and
// upward traversal never creates a cycle. Handle 0 is always the root (the
// empty prefix).
type Trie struct {
	nodes []node
}

// New returns an empty trie containing only the root node.
func New() *Trie {
	t := &Trie{}
	t.grow(noToken)
	return t
}

// FromTokens builds a trie where each byte string is inserted with its index
// as the token id.
func FromTokens(tokens [][]byte) *Trie {
	t := New()
	for id, s := range tokens {
		t.Insert(s, id)
	}
	return t
}

func (t *Trie) grow(parent int) int {
	t.nodes = append(t.nodes, node{parent: parent, token: noToken})
	return len(t.nodes) - 1
}

// Root returns the handle of the root node.
func (t *Trie) Root() int { return 0 }

// Insert walks the byte string from the root, creating nodes as needed, and
// assigns the token id to the terminal node. If the terminal node already
// carries an id the call is a no-op: the first inserted id wins.
func (t *Trie) Insert(s []byte, id int) {
	n := 0
	for _, b := range s {
		c, ok := t.nodes[n].children[b]
		if !ok {
			c = t.grow(n)
			if t.nodes[n].children == nil {
				t.nodes[n].children = make(map[byte]int)
			}
			t.nodes[n].children[b] = c
		}
		n = c
	}
	if t.nodes[n].token == noToken {
		t.nodes[n].token = id
	}
}

// HasChild reports whether node n has an edge for byte b.
func (t *Trie) HasChild(n int, b byte) bool {
	_, ok := t.nodes[n].children[b]
	return ok
}

// Child returns the handle of n's child for byte b, or ErrNoChild.
func (t *Trie) Child(n int, b byte) (int, error) {
	c, ok := t.nodes[n].children[b]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%02x", ErrNoChild, b)
	}
	return c, nil
}

// Parent returns the handle of n's parent. The root's parent is -1.
func (t *Trie) Parent(n int) int { return t.nodes[n].parent }

// Token returns the token id terminating at node n, if any.
func (t *Trie) Token(n int) (int, bool) {
	id := t.nodes[n].token
	return id, id != noToken
}

// Size returns the number of children of node n.
func (t *Trie) Size(n int) int { return len(t.nodes[n].children) }

// Prob returns the probability mass aggregated at node n by the last
// ComputeProbs call.
func (t *Trie) Prob(n int) float64 { return t.nodes[n].prob }

// ComputeProbs sets every node's prob to the sum of probs[id] over all token
// ids terminating at the node or any of its descendants. Each node is reset
// before accumulation, so repeated calls with the same input yield identical
// results. Children are visited in byte order to keep the floating-point
// accumulation order stable.
func (t *Trie) ComputeProbs(probs []float64) {
	t.computeProbs(0, probs)
}

func (t *Trie) computeProbs(n int, probs []float64) float64 {
	nd := &t.nodes[n]
	nd.prob = 0
	if nd.token != noToken {
		nd.prob += probs[nd.token]
	}
	for _, b := range sortedKeys(nd.children) {
		nd.prob += t.computeProbs(nd.children[b], probs)
	}
	return nd.prob
}

// PrefixProb returns the aggregated probability mass of all tokens whose
// bytes start with the given prefix, using the values from the last
// ComputeProbs call. The second result is false when no vocabulary entry
// starts with the prefix.
func (t *Trie) PrefixProb(prefix []byte) (float64, bool) {
	n := 0
	for _, b := range prefix {
		c, ok := t.nodes[n].children[b]
		if !ok {
			return 0, false
		}
		n = c
	}
	return t.nodes[n].prob, true
}

func sortedKeys(m map[byte]int) []byte {
	keys := make([]byte, 0, len(m))
	for b := range m {
		keys = append(keys, b)
	}
	slices.Sort(keys)
	return keys
}
