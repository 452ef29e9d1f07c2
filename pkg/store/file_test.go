package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/CTAG07/markovchain/pkg/markov"
)

func TestFileStoreRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSON, Msgpack} {
		t.Run(codec.Name(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "chain."+codec.Name())
			roundTrip(t, NewFileStore(path, codec))

			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected chain file to exist: %v", err)
			}
		})
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), nil)
	err := s.Load(context.Background(), markov.New(2))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the error to wrap os.ErrNotExist, got %v", err)
	}
}

func TestFileStoreLoadForeignData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(path, []byte(`{"type":"something-else","n":5}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c := trainedChain()
	before := c.ToPortable()
	if err := NewFileStore(path, JSON).Load(context.Background(), c); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(before, c.ToPortable()) {
		t.Errorf("expected chain to be unchanged by foreign data")
	}
}
