package engine

import "math/rand"

// NoiseSource produces the score samples used to synthesize logits. It is a
// single-capability interface so tests can substitute a fixed sequence
// without touching the trie or bias logic.
type NoiseSource interface {
	NextScore() float64
}

// normalNoise draws standard-normal samples from a seeded generator. The
// generator's cursor is the only state, advancing once per sample, so a full
// run is reproducible from the seed.
type normalNoise struct {
	rng *rand.Rand
}

func newNormalNoise(seed int64) *normalNoise {
	return &normalNoise{rng: rand.New(rand.NewSource(seed))}
}

func (n *normalNoise) NextScore() float64 {
	return n.rng.NormFloat64()
}
