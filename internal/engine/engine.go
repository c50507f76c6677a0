package engine

import (
	"bytes"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/samcharles93/mimic/internal/logits"
	"github.com/samcharles93/mimic/internal/tokenizer"
)

// biasBase is the additive weight given to tokens matching the first bias
// pattern; each subsequent matching pattern receives half the previous
// weight, so earlier-declared patterns dominate when patterns conflict.
const biasBase = 100.0

// Config configures a mock engine.
type Config struct {
	// Patterns are target byte continuations the synthesized logits are
	// biased toward. Order is priority order.
	Patterns [][]byte
	// Force blocks every token (score -Inf) except those consistent with a
	// pattern, so generation stays exactly on the configured continuations.
	Force bool
	// Seed fixes both the noise stream and the sampling rng.
	Seed int64
	// Tracer is accepted at the engine boundary but never invoked by the
	// mock. Defaults to NopTracer.
	Tracer Tracer
}

// Engine is a deterministic stand-in for a model inference backend. It
// synthesizes a reproducible logit vector for any token prefix instead of
// running a forward pass, and records every temperature it is asked to
// sample with so tests can introspect the calls.
//
// One generation session proceeds serially through one engine instance; the
// noise cursor, sampling rng and temperature log are the only mutable state
// and are never shared between instances.
type Engine struct {
	tok       *tokenizer.MockTokenizer
	patterns  [][]byte
	force     bool
	validMask []float32
	noise     NoiseSource
	sampler   *logits.Sampler
	tracer    Tracer

	calledTemperatures []float64
}

// New builds an engine over the given tokenizer. A token is considered valid
// noise territory only when its bytes are well-formed UTF-8; structurally
// invalid tokens keep a score of exactly 0 in non-forcing mode.
func New(tok *tokenizer.MockTokenizer, cfg Config) *Engine {
	mask := make([]float32, tok.Len())
	for id := range mask {
		b, _ := tok.TokenBytes(id)
		if utf8.Valid(b) {
			mask[id] = 1
		}
	}
	patterns := make([][]byte, len(cfg.Patterns))
	for i, p := range cfg.Patterns {
		patterns[i] = append([]byte(nil), p...)
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = NopTracer{}
	}
	return &Engine{
		tok:       tok,
		patterns:  patterns,
		force:     cfg.Force,
		validMask: mask,
		noise:     newNormalNoise(cfg.Seed),
		sampler:   logits.NewSampler(logits.SamplerConfig{Seed: cfg.Seed}),
		tracer:    tracer,
	}
}

// SetNoise replaces the noise source. Intended for tests that need a fixed
// score sequence.
func (e *Engine) SetNoise(n NoiseSource) { e.noise = n }

// Tokenizer returns the engine's tokenizer.
func (e *Engine) Tokenizer() *tokenizer.MockTokenizer { return e.tok }

// GetLogits synthesizes a score vector over the whole vocabulary for the
// given token prefix. In forcing mode every score starts at -Inf; otherwise
// each score is one draw from the noise source multiplied by the UTF-8
// validity mask. Any configured pattern that extends the prefix then adds
// its bias weight to every token whose bytes are a prefix of the pattern's
// unconsumed suffix. The returned slice is freshly allocated per call.
func (e *Engine) GetLogits(ids []int) []float32 {
	scores := make([]float32, e.tok.Len())
	if e.force {
		neg := float32(math.Inf(-1))
		for i := range scores {
			scores[i] = neg
		}
	} else {
		for i := range scores {
			scores[i] = float32(e.noise.NextScore()) * e.validMask[i]
		}
	}

	prefix, _ := e.tok.DecodeBytes(ids)
	weight := float32(biasBase)
	for _, p := range e.patterns {
		if len(p) <= len(prefix) || !bytes.HasPrefix(p, prefix) {
			continue
		}
		for _, id := range e.nextPatternTokens(p[len(prefix):]) {
			// A blocked score is replaced rather than accumulated, so
			// forcing mode leaves on-pattern tokens finite and positive.
			if math.IsInf(float64(scores[id]), -1) {
				scores[id] = weight
			} else {
				scores[id] += weight
			}
		}
		weight /= 2
	}
	return scores
}

// nextPatternTokens yields every token id whose bytes are a prefix of the
// unconsumed pattern suffix. If the suffix itself begins with the BOS or EOS
// marker, only that special id is yielded and plain vocabulary tokens are
// not considered.
func (e *Engine) nextPatternTokens(suffix []byte) []int {
	for _, special := range []int{e.tok.BOSID(), e.tok.EOSID()} {
		b, ok := e.tok.TokenBytes(special)
		if ok && bytes.HasPrefix(suffix, b) {
			return []int{special}
		}
	}
	var ids []int
	for id, t := range e.tok.Tokens() {
		if bytes.HasPrefix(suffix, t) {
			ids = append(ids, id)
		}
	}
	return ids
}

// SampleWithTemperature records the temperature then draws one token id from
// the score vector. Temperature 0 is arg-max with the lowest id winning
// ties; temperature > 0 samples from softmax(scores/temperature) restricted
// to the allowed mask.
func (e *Engine) SampleWithTemperature(scores []float32, mask []bool, temperature float64) int {
	e.calledTemperatures = append(e.calledTemperatures, temperature)
	return e.sampler.SampleWithTemperature(scores, mask, temperature)
}

// NextTokenWithTopK records the temperature, then performs one decoding
// step: synthesize logits for the prefix, sample the next token, and report
// the k highest-scoring alternatives. The chosen token is always present in
// the TopK list even when it falls outside the nominal top k.
func (e *Engine) NextTokenWithTopK(ids []int, mask []bool, temperature float64, k int) Output {
	e.calledTemperatures = append(e.calledTemperatures, temperature)
	scores := e.GetLogits(ids)
	probs := logits.Softmax(scores)
	chosen := e.SampleWithTemperature(scores, mask, temperature)
	top := logits.TopK(scores, k)
	if !slices.Contains(top, chosen) {
		top = append(top, chosen)
	}
	out := Output{
		Token: e.tokenAt(chosen, probs),
		TopK:  make([]Token, len(top)),
	}
	for i, id := range top {
		out.TopK[i] = e.tokenAt(id, probs)
	}
	return out
}

// PerTokenTopK walks a full token sequence and reports, for every position,
// the model's own assessed probability of the token actually present there
// plus its top-k alternatives by score. A missing leading BOS token is
// synthesized for the walk and its fabricated entry stripped from the
// result. The start position is the anchor and always reports probability
// 1.0 without a logits call; every later position reports exactly
// softmax(logits)[id] for its true token.
func (e *Engine) PerTokenTopK(ids []int, k int) []TokenScores {
	if len(ids) == 0 {
		return nil
	}
	if k <= 0 {
		k = 5
	}

	addedBOS := false
	if ids[0] != e.tok.BOSID() {
		ids = append([]int{e.tok.BOSID()}, ids...)
		addedBOS = true
	}

	results := make([]TokenScores, 0, len(ids))
	anchor := Token{ID: ids[0], Prob: 1.0, Text: e.tokenText(ids[0])}
	results = append(results, TokenScores{Token: anchor, TopK: []Token{anchor}})

	for i := 1; i < len(ids); i++ {
		scores := e.GetLogits(ids[:i])
		probs := logits.Softmax(scores)
		top := logits.TopK(scores, k)
		if !slices.Contains(top, ids[i]) {
			top = append(top, ids[i])
		}
		entry := TokenScores{
			Token: e.tokenAt(ids[i], probs),
			TopK:  make([]Token, len(top)),
		}
		for j, id := range top {
			entry.TopK[j] = e.tokenAt(id, probs)
		}
		results = append(results, entry)
	}

	if addedBOS {
		results = results[1:]
	}
	return results
}

// PrefixMass reports the total probability mass, under softmax of the logits
// for the given prefix, of all vocabulary tokens whose bytes start with the
// given byte sequence. The second result is false when no token starts with
// it.
func (e *Engine) PrefixMass(ids []int, prefix []byte) (float64, bool) {
	probs := logits.Softmax(e.GetLogits(ids))
	tr := e.tok.Trie()
	tr.ComputeProbs(probs)
	return tr.PrefixProb(prefix)
}

// CalledTemperatures returns the temperatures recorded by sampling calls, in
// call order.
func (e *Engine) CalledTemperatures() []float64 {
	return append([]float64(nil), e.calledTemperatures...)
}

func (e *Engine) tokenAt(id int, probs []float64) Token {
	return Token{ID: id, Prob: probs[id], Text: e.tokenText(id)}
}

func (e *Engine) tokenText(id int) string {
	b, _ := e.tok.TokenBytes(id)
	return string(b)
}
