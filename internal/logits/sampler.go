package logits

import (
	"math"
	"math/rand"
)

// SamplerConfig configures the behaviour of a Sampler.
type SamplerConfig struct {
	Seed int64
}

// Sampler draws token ids from logit vectors. It owns a seeded generator so
// a full run is reproducible; two samplers built with the same seed and fed
// the same calls in the same order return identical ids.
type Sampler struct {
	rng *rand.Rand
	cfg SamplerConfig
}

// NewSampler returns a new sampler with the provided configuration.
func NewSampler(cfg SamplerConfig) *Sampler {
	return &Sampler{
		rng: rand.New(rand.NewSource(cfg.Seed)),
		cfg: cfg,
	}
}

// SampleWithTemperature draws a single index from the provided logits vector.
// Temperature 0 performs arg-max with the lowest index winning ties.
// Temperature > 0 samples from softmax(logits/temperature). A non-nil mask
// restricts candidates to indices where mask is true.
func (s *Sampler) SampleWithTemperature(logits []float32, mask []bool, temperature float64) int {
	if temperature <= 0 {
		return argmaxMasked(logits, mask)
	}

	// Softmax over the allowed set, shifted by the max for stability.
	maxv := math.Inf(-1)
	for i, l := range logits {
		if mask != nil && !mask[i] {
			continue
		}
		v := float64(l) / temperature
		if v > maxv {
			maxv = v
		}
	}
	if math.IsInf(maxv, -1) {
		// Every allowed candidate is blocked. Degenerate but not an error;
		// fall back to the lowest allowed index.
		return argmaxMasked(logits, mask)
	}

	prob := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		if mask != nil && !mask[i] {
			continue
		}
		e := math.Exp(float64(l)/temperature - maxv)
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		return argmaxMasked(logits, mask)
	}

	r := s.rng.Float64() * sum
	var c float64
	last := 0
	for i, p := range prob {
		if p == 0 {
			continue
		}
		c += p
		last = i
		if r <= c {
			return i
		}
	}
	return last
}

// Softmax converts logits to a probability distribution. The accumulation is
// done in float64 so downstream probability checks are exact with respect to
// this function. A vector with no finite entry yields the uniform
// distribution rather than NaNs.
func Softmax(logits []float32) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	maxv := math.Inf(-1)
	for _, l := range logits {
		if v := float64(l); v > maxv {
			maxv = v
		}
	}
	if math.IsInf(maxv, -1) {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l) - maxv)
		out[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range out {
		out[i] *= inv
	}
	return out
}

// Argmax returns the lowest index holding the maximum value. If the slice is
// empty it panics.
func Argmax(logits []float32) int {
	if len(logits) == 0 {
		panic("argmax: empty slice")
	}
	bestI := 0
	bestV := logits[0]
	for i := 1; i < len(logits); i++ {
		if logits[i] > bestV {
			bestV = logits[i]
			bestI = i
		}
	}
	return bestI
}

func argmaxMasked(logits []float32, mask []bool) int {
	if mask == nil {
		return Argmax(logits)
	}
	bestI := -1
	var bestV float32
	for i, l := range logits {
		if !mask[i] {
			continue
		}
		if bestI < 0 || l > bestV {
			bestV = l
			bestI = i
		}
	}
	if bestI < 0 {
		return 0
	}
	return bestI
}

// TopK returns the indices of the k largest logits, ordered from largest to
// smallest. Equal values keep the lower index first. This is an O(V*K)
// insertion pass suitable for small K.
func TopK(logits []float32, k int) []int {
	if k <= 0 {
		return nil
	}
	if k > len(logits) {
		k = len(logits)
	}
	idx := make([]int, 0, k+1)
	val := make([]float32, 0, k+1)
	for i, l := range logits {
		pos := len(val)
		for pos > 0 && val[pos-1] < l {
			pos--
		}
		if pos >= k {
			continue
		}
		idx = append(idx, 0)
		val = append(val, 0)
		copy(idx[pos+1:], idx[pos:])
		copy(val[pos+1:], val[pos:])
		idx[pos] = i
		val[pos] = l
		if len(val) > k {
			idx = idx[:k]
			val = val[:k]
		}
	}
	return idx
}
