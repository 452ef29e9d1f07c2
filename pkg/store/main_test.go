package store

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/CTAG07/markovchain/pkg/markov"

	_ "modernc.org/sqlite"
)

var trainingTokens = []string{"one", "fish", "two", "fish", "red", "fish", "blue", "fish."}

// trainedChain returns an order-2 chain trained on trainingTokens.
func trainedChain(opts ...markov.Option) *markov.Chain {
	opts = append([]markov.Option{markov.WithRand(rand.New(rand.NewPCG(5, 5)))}, opts...)
	return markov.New(2, opts...).Train(trainingTokens)
}

// setupTestDB creates a new SQLite database file and prepares its schema.
// It uses t.Cleanup to ensure resources are released.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	return db
}

// assertSameChain fails the test if the two chains hold different tables.
func assertSameChain(t *testing.T, want, got *markov.Chain) {
	t.Helper()
	if !reflect.DeepEqual(want.ToPortable(), got.ToPortable()) {
		t.Errorf("chain mismatch:\n got  %+v\n want %+v", got.ToPortable(), want.ToPortable())
	}
}

// roundTrip saves a trained chain through p and loads it into a fresh one.
func roundTrip(t *testing.T, p markov.Persistence) {
	t.Helper()
	ctx := context.Background()

	original := trainedChain(markov.WithPersistence(p))
	if err := original.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := markov.New(2, markov.WithPersistence(p))
	if err := loaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSameChain(t, original, loaded)
}
