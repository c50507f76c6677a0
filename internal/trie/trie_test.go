package trie

import (
	"errors"
	"math"
	"testing"
)

func TestInsertFirstIDWins(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert([]byte("ab"), 3)
	tr.Insert([]byte("ab"), 9)

	n := tr.Root()
	for _, b := range []byte("ab") {
		c, err := tr.Child(n, b)
		if err != nil {
			t.Fatalf("child %q: %v", b, err)
		}
		n = c
	}
	id, ok := tr.Token(n)
	if !ok || id != 3 {
		t.Fatalf("terminal token: got (%d,%v) want (3,true)", id, ok)
	}
}

func TestChildMissing(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert([]byte("a"), 0)
	if tr.HasChild(tr.Root(), 'b') {
		t.Fatalf("unexpected child for 'b'")
	}
	if _, err := tr.Child(tr.Root(), 'b'); !errors.Is(err, ErrNoChild) {
		t.Fatalf("expected ErrNoChild, got %v", err)
	}
}

func TestParentLinks(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert([]byte("xy"), 1)
	x, err := tr.Child(tr.Root(), 'x')
	if err != nil {
		t.Fatalf("child x: %v", err)
	}
	y, err := tr.Child(x, 'y')
	if err != nil {
		t.Fatalf("child y: %v", err)
	}
	if tr.Parent(y) != x || tr.Parent(x) != tr.Root() {
		t.Fatalf("parent chain broken: %d -> %d -> %d", y, tr.Parent(y), tr.Parent(x))
	}
	if tr.Parent(tr.Root()) != -1 {
		t.Fatalf("root parent: got %d want -1", tr.Parent(tr.Root()))
	}
}

func TestComputeProbsAggregates(t *testing.T) {
	t.Parallel()

	tr := FromTokens([][]byte{
		[]byte("a"),  // id 0
		[]byte("ab"), // id 1
		[]byte("b"),  // id 2
	})
	probs := []float64{0.5, 0.25, 0.25}
	tr.ComputeProbs(probs)

	if got := tr.Prob(tr.Root()); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("root prob: got %v want 1.0", got)
	}
	// The "a" subtree holds both "a" and "ab".
	got, ok := tr.PrefixProb([]byte("a"))
	if !ok || math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("prefix prob of a: got (%v,%v) want (0.75,true)", got, ok)
	}

	// Recomputation must not double-count.
	tr.ComputeProbs(probs)
	if got := tr.Prob(tr.Root()); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("root prob after recompute: got %v want 1.0", got)
	}
}

func TestPrefixProbUnknownPrefix(t *testing.T) {
	t.Parallel()

	tr := FromTokens([][]byte{[]byte("a")})
	tr.ComputeProbs([]float64{1})
	if _, ok := tr.PrefixProb([]byte("zz")); ok {
		t.Fatalf("expected no mass for unknown prefix")
	}
}
