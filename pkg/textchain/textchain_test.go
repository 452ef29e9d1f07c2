package textchain

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/CTAG07/markovchain/pkg/markov"
)

const trainingData = "Hello world. The cat sat. The dog ran."

// setupTextChain returns an order-2 text chain trained on trainingData.
func setupTextChain(t *testing.T, opts ...markov.Option) *TextChain {
	t.Helper()
	opts = append([]markov.Option{markov.WithRand(rand.New(rand.NewPCG(9, 9)))}, opts...)
	return New(markov.New(2, opts...), nil).Train(trainingData)
}

func TestTextChainTrain(t *testing.T) {
	tc := setupTextChain(t)

	next := tc.Chain().Next([]string{"The"})
	if len(next) != 2 || next[0].Token != "cat" || next[1].Token != "dog" {
		t.Errorf("unexpected successors for 'The': %+v", next)
	}
}

func TestTextChainTrainReader(t *testing.T) {
	tc := New(markov.New(2), nil)
	if err := tc.TrainReader(strings.NewReader("one fish\ntwo fish")); err != nil {
		t.Fatalf("TrainReader failed: %v", err)
	}
	if got := tc.Chain().Stats().TotalFrequency; got != 3 {
		t.Errorf("expected 3 trained windows, got %d", got)
	}
}

func TestTextChainGenerate(t *testing.T) {
	tc := setupTextChain(t)

	testCases := []struct {
		name     string
		seed     string
		steps    int
		expected string
	}{
		{name: "One step", seed: "Hello", steps: 1, expected: "Hello world."},
		{name: "Zero steps", seed: "Hello", steps: 0, expected: "Hello"},
		{name: "Seed whitespace is normalized", seed: "  Hello\n", steps: 1, expected: "Hello world."},
		{name: "Dead end", seed: "ran.", steps: 5, expected: "ran."},
		{name: "Deterministic path", seed: "world.", steps: 1, expected: "world. The"},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			got, err := tc.GenerateSteps(c.seed, c.steps)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if got != c.expected {
				t.Errorf("expected %q, got %q", c.expected, got)
			}
		})
	}
}

func TestTextChainGenerateDefaultsToOneStep(t *testing.T) {
	tc := setupTextChain(t)
	got, err := tc.Generate("Hello", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Hello world." {
		t.Errorf("expected %q, got %q", "Hello world.", got)
	}
}

func TestTextChainGenerateInsufficientContext(t *testing.T) {
	tc := New(markov.New(3), nil).Train(trainingData)
	if _, err := tc.Generate("Hello", nil); !errors.Is(err, markov.ErrInsufficientContext) {
		t.Errorf("expected ErrInsufficientContext, got %v", err)
	}
}

func TestGenerateSentences(t *testing.T) {
	tc := setupTextChain(t)

	got, err := tc.GenerateSentences("Hello", 1)
	if err != nil {
		t.Fatalf("GenerateSentences failed: %v", err)
	}
	if got != "Hello world." {
		t.Errorf("expected %q, got %q", "Hello world.", got)
	}

	got, err = tc.GenerateSentences("The", 1)
	if err != nil {
		t.Fatalf("GenerateSentences failed: %v", err)
	}
	if got != "The cat sat." && got != "The dog ran." {
		t.Errorf("expected one of [%q, %q], got %q", "The cat sat.", "The dog ran.", got)
	}

	got, err = tc.GenerateSentences("Hello", 2)
	if err != nil {
		t.Fatalf("GenerateSentences failed: %v", err)
	}
	if !strings.HasPrefix(got, "Hello world. The ") || tc.Tool().CountSentences([]string{got}) != 2 {
		t.Errorf("expected two sentences starting with 'Hello world. The', got %q", got)
	}
}

func TestGenerateSentencesCountsSeed(t *testing.T) {
	tc := setupTextChain(t)
	got, err := tc.GenerateSentences("Hello world.", 1)
	if err != nil {
		t.Fatalf("GenerateSentences failed: %v", err)
	}
	if got != "Hello world." {
		t.Errorf("expected the seed back unchanged, got %q", got)
	}
}

func TestGenerateSentencesCustomCounter(t *testing.T) {
	tool := NewTextTool(WithSentenceSuffix("!"))
	tc := New(markov.New(2), tool).Train("go now! stop here!")

	got, err := tc.GenerateSentences("go", 1)
	if err != nil {
		t.Fatalf("GenerateSentences failed: %v", err)
	}
	if got != "go now!" {
		t.Errorf("expected %q, got %q", "go now!", got)
	}
}

type memPersistence struct {
	portable *markov.Portable
}

func (m *memPersistence) Save(_ context.Context, c *markov.Chain) error {
	m.portable = c.ToPortable()
	return nil
}

func (m *memPersistence) Load(_ context.Context, c *markov.Chain) error {
	c.FromPortable(m.portable)
	return nil
}

func TestTextChainSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := &memPersistence{}

	tc := setupTextChain(t, markov.WithPersistence(store))
	if err := tc.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New(markov.New(2, markov.WithPersistence(store)), nil)
	if err := loaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := loaded.GenerateSteps("Hello", 1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Hello world." {
		t.Errorf("expected %q, got %q", "Hello world.", got)
	}
}
