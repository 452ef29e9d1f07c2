package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// DefaultOrder is the n-gram order used when New is given an order of 0.
const DefaultOrder = 2

// keySeparator joins the tokens of a context window into a lookup key.
const keySeparator = " "

// Rand is the source of uniform random values in [0, 1) used by Generate.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// transition holds the observed next tokens for one context key, in the
// order they were first seen.
type transition struct {
	tokens []string
	counts []int
	index  map[string]int
}

func newTransition() *transition {
	return &transition{index: make(map[string]int)}
}

// add increments the count for token by n, appending it if unseen.
func (t *transition) add(token string, n int) {
	if i, ok := t.index[token]; ok {
		t.counts[i] += n
		return
	}
	t.index[token] = len(t.tokens)
	t.tokens = append(t.tokens, token)
	t.counts = append(t.counts, n)
}

// set overwrites the count for token, keeping its original position.
func (t *transition) set(token string, n int) {
	if i, ok := t.index[token]; ok {
		t.counts[i] = n
		return
	}
	t.add(token, n)
}

func (t *transition) total() int {
	var sum int
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// Chain is an n-gram Markov chain. The zero value is not usable; create one
// with New.
//
// A Chain does no locking. Train, SetTransitions and FromPortable mutate the
// table and must not run concurrently with each other or with Generate.
type Chain struct {
	order       int
	transitions map[string]*transition
	persistence Persistence
	rng         Rand
	logger      *slog.Logger
}

// Option configures a Chain at construction time.
type Option func(*Chain)

// WithTransitions seeds the chain with an initial transition table, loaded
// the same way as SetTransitions.
func WithTransitions(t Transitions) Option {
	return func(c *Chain) {
		c.SetTransitions(t)
	}
}

// WithPersistence sets the strategy used by Save and Load.
func WithPersistence(p Persistence) Option {
	return func(c *Chain) { c.persistence = p }
}

// WithRand sets the random source used by Generate. By default the
// process-wide math/rand/v2 generator is used.
func WithRand(r Rand) Option {
	return func(c *Chain) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithLogger sets the logger for the chain. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) { c.SetLogger(logger) }
}

// New creates an empty chain of the given n-gram order. An order of 0 selects
// DefaultOrder; any other value below 1 is raised to 1.
func New(order int, opts ...Option) *Chain {
	if order == 0 {
		order = DefaultOrder
	}
	c := &Chain{
		order:       max(1, order),
		transitions: make(map[string]*transition),
		rng:         globalRand{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger sets the logger for the Chain. A nil logger is ignored.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Order returns the n-gram order of the chain.
func (c *Chain) Order() int {
	return c.order
}

// Len returns the number of distinct context keys in the table.
func (c *Chain) Len() int {
	return len(c.transitions)
}

// Train records every window of Order() tokens in tokens: the first
// Order()-1 tokens form the context and the last one is counted as its
// successor. Sequences shorter than the order add nothing. Train returns
// the chain so calls can be chained.
func (c *Chain) Train(tokens []string) *Chain {
	windows := 0
	for i := 0; i+c.order <= len(tokens); i++ {
		key := strings.Join(tokens[i:i+c.order-1], keySeparator)
		t, ok := c.transitions[key]
		if !ok {
			t = newTransition()
			c.transitions[key] = t
		}
		t.add(tokens[i+c.order-1], 1)
		windows++
	}
	c.logger.Debug("Training completed",
		slog.Int("order", c.order),
		slog.Int("tokens", len(tokens)),
		slog.Int("windows", windows),
		slog.Int("contexts", len(c.transitions)),
	)
	return c
}

// SetTransitions bulk-loads a transition table. Each key present in t
// replaces the chain's entry for that key entirely; keys not in t are left
// alone. Entries with a count below 1 are skipped, and a key whose list ends
// up empty is not created. A token listed twice keeps its first position and
// its last count.
func (c *Chain) SetTransitions(t Transitions) *Chain {
	for key, entries := range t {
		next := newTransition()
		for _, e := range entries {
			if e.Count < 1 {
				continue
			}
			next.set(e.Token, e.Count)
		}
		if len(next.tokens) == 0 {
			continue
		}
		c.transitions[key] = next
	}
	return c
}

// Next returns a copy of the recorded successors of context, in the order
// they were first observed. Only the last Order()-1 tokens of context are
// used. It returns nil when the context is unknown or too short.
func (c *Chain) Next(context []string) []Transition {
	if len(context) < c.order-1 {
		return nil
	}
	t, ok := c.transitions[contextKey(context, c.order)]
	if !ok {
		return nil
	}
	out := make([]Transition, len(t.tokens))
	for i, tok := range t.tokens {
		out[i] = Transition{Token: tok, Count: t.counts[i]}
	}
	return out
}

// contextKey joins the trailing order-1 tokens of window.
func contextKey(window []string, order int) string {
	return strings.Join(window[len(window)-(order-1):], keySeparator)
}
