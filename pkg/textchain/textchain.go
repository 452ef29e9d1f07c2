package textchain

import (
	"context"
	"fmt"
	"io"

	"github.com/CTAG07/markovchain/pkg/markov"
)

// TextChain trains and generates free text with a markov.Chain. It keeps no
// state of its own; everything lives in the wrapped chain.
type TextChain struct {
	chain *markov.Chain
	tool  *TextTool
}

// New wraps chain. A nil tool selects NewTextTool().
func New(chain *markov.Chain, tool *TextTool) *TextChain {
	if tool == nil {
		tool = NewTextTool()
	}
	return &TextChain{chain: chain, tool: tool}
}

// Chain returns the wrapped chain.
func (tc *TextChain) Chain() *markov.Chain {
	return tc.chain
}

// Tool returns the text tool in use.
func (tc *TextChain) Tool() *TextTool {
	return tc.tool
}

// Train tokenizes texts and trains the chain on the resulting sequence.
func (tc *TextChain) Train(texts ...string) *TextChain {
	tc.chain.Train(tc.tool.Tokenize(texts...))
	return tc
}

// TrainReader reads all of r and trains on it as a single text.
func (tc *TextChain) TrainReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read training data: %w", err)
	}
	tc.Train(string(data))
	return nil
}

// Generate continues text using the chain and joins the full result, seed
// included. A nil stop takes a single step.
func (tc *TextChain) Generate(text string, stop markov.StopCondition) (string, error) {
	generated, err := tc.chain.Generate(tc.tool.Tokenize(text), stop)
	if err != nil {
		return "", err
	}
	return tc.tool.Join(generated), nil
}

// GenerateSteps is Generate with a fixed number of steps.
func (tc *TextChain) GenerateSteps(text string, steps int) (string, error) {
	return tc.Generate(text, markov.Steps(steps))
}

// GenerateSentences continues text until the output, seed included, holds
// at least n sentences or the chain reaches a dead end. n below 1 is treated
// as 1.
func (tc *TextChain) GenerateSentences(text string, n int) (string, error) {
	n = max(1, n)
	stop := func(generated []string, _ int) bool {
		return tc.tool.CountSentences(generated) < n
	}
	return tc.Generate(text, stop)
}

// Save persists the wrapped chain.
func (tc *TextChain) Save(ctx context.Context) error {
	return tc.chain.Save(ctx)
}

// Load restores the wrapped chain.
func (tc *TextChain) Load(ctx context.Context) error {
	return tc.chain.Load(ctx)
}
