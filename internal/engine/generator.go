package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/mimic/internal/metrics"
)

// Generate runs the decoding loop: encode the prompt, then repeatedly
// synthesize logits for the current prefix, sample the next id and append it.
// Generation stops after steps tokens, when the EOS token is sampled, or when
// the context is cancelled. The decoded text of each generated token is
// passed to stream when it is non-nil.
func (e *Engine) Generate(ctx context.Context, prompt []byte, steps int, temperature float64, stream func(string)) ([]int, Stats, error) {
	var stats Stats

	ids, err := e.tok.EncodeBytes(prompt, true)
	if err != nil {
		return nil, stats, fmt.Errorf("encode prompt: %w", err)
	}

	limit := steps
	if limit < 0 {
		limit = 1000000
	}

	start := time.Now()
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return ids, stats, err
		}

		scores := e.GetLogits(ids)
		metrics.LogitCallsTotal.Inc()

		next := e.SampleWithTemperature(scores, nil, temperature)
		if next == e.tok.EOSID() {
			break
		}
		ids = append(ids, next)
		stats.TokensGenerated++
		metrics.TokensGeneratedTotal.Inc()

		if stream != nil {
			s, _ := e.tok.DecodeBytes([]int{next})
			stream(string(s))
		}
	}

	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.TPS = float64(stats.TokensGenerated) / stats.Duration.Seconds()
	}
	metrics.GenerateDuration.Observe(stats.Duration.Seconds())

	return ids, stats, nil
}
