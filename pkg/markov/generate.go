package markov

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInsufficientContext is returned by Generate when the seed holds fewer
// than Order()-1 tokens.
var ErrInsufficientContext = errors.New("insufficient context")

// StopCondition decides, before each generation step, whether generation
// continues. generated holds the seed followed by every token produced so
// far and step is the zero-based index of the step about to run. Returning
// false stops generation.
type StopCondition func(generated []string, step int) bool

// Steps returns a StopCondition that allows exactly n generation steps.
// A value of 0 or less allows none.
func Steps(n int) StopCondition {
	return func(_ []string, step int) bool { return step < n }
}

// Generate continues the sequence initial by walking the chain. Before each
// step stop is consulted; a nil stop allows a single step. Generation also
// ends, without error, when the current context has no recorded successors.
//
// The result is a new slice holding initial followed by the generated
// tokens. Generate fails with ErrInsufficientContext if initial is shorter
// than Order()-1.
func (c *Chain) Generate(initial []string, stop StopCondition) ([]string, error) {
	need := c.order - 1
	if len(initial) < need {
		return nil, fmt.Errorf("%w: need %d or more tokens, but got %d", ErrInsufficientContext, need, len(initial))
	}
	if stop == nil {
		stop = Steps(1)
	}

	generated := make([]string, len(initial), len(initial)+16)
	copy(generated, initial)

	window := make([]string, need)
	copy(window, initial[len(initial)-need:])

	step := 0
	for ; stop(generated, step); step++ {
		key := contextKey(window, c.order)
		t, ok := c.transitions[key]
		if !ok || len(t.tokens) == 0 { // Dead end in chain
			c.logger.Debug("Generation terminated due to dead-end",
				slog.String("last_context", key),
				slog.Int("generated_length", step),
			)
			break
		}

		next := c.choose(t)
		generated = append(generated, next)
		if need > 0 {
			window = append(window[1:], next)
		}
	}

	c.logger.Debug("Generation finished",
		slog.Int("order", c.order),
		slog.Int("seed_length", len(initial)),
		slog.Int("generated_length", len(generated)-len(initial)),
	)
	return generated, nil
}

// choose draws one successor from t with probability proportional to its
// count. Buckets are walked in insertion order; if rounding leaves r above
// the final cumulative value, the last entry is selected.
func (c *Chain) choose(t *transition) string {
	total := float64(t.total())
	r := c.rng.Float64()

	var cumulative float64
	for i, count := range t.counts {
		cumulative += float64(count) / total
		if r <= cumulative {
			return t.tokens[i]
		}
	}
	return t.tokens[len(t.tokens)-1]
}
