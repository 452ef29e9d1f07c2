package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CTAG07/markovchain/pkg/markov"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by Load when the store holds no chain under the
// requested name or path.
var ErrNotFound = errors.New("chain not found")

// Codec encodes the portable form of a chain to bytes and back.
type Codec interface {
	Name() string
	Marshal(p *markov.Portable) ([]byte, error)
	Unmarshal(data []byte) (*markov.Portable, error)
}

var (
	// JSON encodes chains in the indented portable JSON format.
	JSON Codec = jsonCodec{}
	// Msgpack encodes chains as msgpack, with transitions as [token, count]
	// arrays.
	Msgpack Codec = msgpackCodec{}
)

// CodecByName returns the codec registered under name ("json" or "msgpack").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", JSON.Name():
		return JSON, nil
	case Msgpack.Name():
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("unknown codec '%s'", name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(p *markov.Portable) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte) (*markov.Portable, error) {
	var p markov.Portable
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode json chain: %w", err)
	}
	return &p, nil
}

// msgpackTransition mirrors markov.Transition as a two-element array.
type msgpackTransition struct {
	_msgpack struct{} `msgpack:",as_array"`
	Token    string
	Count    int
}

type msgpackPortable struct {
	Type        string                         `msgpack:"type"`
	Order       int                            `msgpack:"n"`
	Transitions map[string][]msgpackTransition `msgpack:"transitions"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(p *markov.Portable) ([]byte, error) {
	mp := msgpackPortable{
		Type:        p.Type,
		Order:       p.Order,
		Transitions: make(map[string][]msgpackTransition, len(p.Transitions)),
	}
	for key, entries := range p.Transitions {
		out := make([]msgpackTransition, len(entries))
		for i, e := range entries {
			out[i] = msgpackTransition{Token: e.Token, Count: e.Count}
		}
		mp.Transitions[key] = out
	}
	return msgpack.Marshal(&mp)
}

func (msgpackCodec) Unmarshal(data []byte) (*markov.Portable, error) {
	var mp msgpackPortable
	if err := msgpack.Unmarshal(data, &mp); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack chain: %w", err)
	}
	p := &markov.Portable{
		Type:        mp.Type,
		Order:       mp.Order,
		Transitions: make(markov.Transitions, len(mp.Transitions)),
	}
	for key, entries := range mp.Transitions {
		out := make([]markov.Transition, len(entries))
		for i, e := range entries {
			out[i] = markov.Transition{Token: e.Token, Count: e.Count}
		}
		p.Transitions[key] = out
	}
	return p, nil
}
