package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// catTokens is the small order-2 corpus used across the tests.
var catTokens = []string{"the", "cat", "sat", "the", "cat", "ran"}

// fixedRand replays a fixed list of values, repeating the last one.
type fixedRand struct {
	values []float64
	i      int
}

func (f *fixedRand) Float64() float64 {
	v := f.values[min(f.i, len(f.values)-1)]
	f.i++
	return v
}

// setupTestChain creates an order-2 chain trained on catTokens with a seeded
// random source.
func setupTestChain(t *testing.T) *Chain {
	t.Helper()
	c := New(2, WithRand(rand.New(rand.NewPCG(1, 2))))
	c.Train(catTokens)
	return c
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a token corpus for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				sb.Reset()
				sb.WriteString("this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. ")
				break
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = strings.Fields(sb.String())
	})
	return benchmarkCorpus
}
