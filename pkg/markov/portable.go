package markov

import (
	"encoding/json"
	"fmt"
)

// PortableType tags data produced by ToPortable.
const PortableType = "markov-chain-base"

// Transition is one observed successor of a context and how often it was
// seen. Its JSON form is the two-element array ["token", count].
type Transition struct {
	Token string
	Count int
}

// MarshalJSON encodes the transition as a [token, count] pair.
func (t Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.Token, t.Count})
}

// UnmarshalJSON decodes a [token, count] pair.
func (t *Transition) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("transition must be a [token, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Token); err != nil {
		return fmt.Errorf("invalid transition token: %w", err)
	}
	if err := json.Unmarshal(pair[1], &t.Count); err != nil {
		return fmt.Errorf("invalid transition count: %w", err)
	}
	return nil
}

// Transitions maps a context key (the context tokens joined by a single
// space, or "" for order-1 chains) to its successors in insertion order.
type Transitions map[string][]Transition

// Portable is the storage-neutral form of a Chain.
type Portable struct {
	Type        string      `json:"type"`
	Order       int         `json:"n"`
	Transitions Transitions `json:"transitions"`
}

// ToPortable snapshots the chain. Successor order within each context is
// preserved so that a reloaded chain samples from identical buckets.
func (c *Chain) ToPortable() *Portable {
	p := &Portable{
		Type:        PortableType,
		Order:       c.order,
		Transitions: make(Transitions, len(c.transitions)),
	}
	for key, t := range c.transitions {
		entries := make([]Transition, len(t.tokens))
		for i, tok := range t.tokens {
			entries[i] = Transition{Token: tok, Count: t.counts[i]}
		}
		p.Transitions[key] = entries
	}
	return p
}

// FromPortable loads p into the chain. A nil p, or one whose Type is not
// PortableType, is ignored. Otherwise the chain adopts p.Order when it is
// positive and merges p.Transitions as SetTransitions does.
func (c *Chain) FromPortable(p *Portable) *Chain {
	if p == nil || p.Type != PortableType {
		return c
	}
	if p.Order > 0 {
		c.order = p.Order
	}
	return c.SetTransitions(p.Transitions)
}

// MarshalJSON encodes the chain in its portable form.
func (c *Chain) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToPortable())
}

// UnmarshalJSON decodes portable data into the chain. Data with a foreign
// type tag is ignored, matching FromPortable.
func (c *Chain) UnmarshalJSON(data []byte) error {
	var p Portable
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if c.transitions == nil {
		*c = *New(p.Order)
	}
	c.FromPortable(&p)
	return nil
}
