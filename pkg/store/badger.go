package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/CTAG07/markovchain/pkg/markov"
)

// badgerKeyPrefix namespaces chain keys inside the database.
const badgerKeyPrefix = "markov/"

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless InMemory.
	Dir string

	// InMemory runs BadgerDB without disk persistence. Useful for tests.
	InMemory bool

	// Name is the chain's key within the database.
	Name string

	// Codec encodes stored values. Defaults to Msgpack.
	Codec Codec

	// Logger receives both store events and badger's own warnings and errors.
	// Defaults to a discard logger.
	Logger *slog.Logger
}

// BadgerStore persists a named chain in BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	key    []byte
	codec  Codec
	logger *slog.Logger
}

// NewBadgerStore opens the database described by opts.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: BadgerOptions.Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	codec := opts.Codec
	if codec == nil {
		codec = Msgpack
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{logger: logger})
	if opts.InMemory {
		dbOpts = dbOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger database: %w", err)
	}
	return &BadgerStore{
		db:     db,
		key:    []byte(badgerKeyPrefix + opts.Name),
		codec:  codec,
		logger: logger,
	}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Save encodes c and stores it under the store's key.
func (s *BadgerStore) Save(ctx context.Context, c *markov.Chain) error {
	data, err := s.codec.Marshal(c.ToPortable())
	if err != nil {
		return fmt.Errorf("failed to encode chain: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to store chain '%s': %w", s.key, err)
	}

	s.logger.InfoContext(ctx, "Chain saved",
		slog.String("key", string(s.key)),
		slog.String("codec", s.codec.Name()),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Load reads the store's key and merges it into c. A missing key yields an
// error matching ErrNotFound.
func (s *BadgerStore) Load(ctx context.Context, c *markov.Chain) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: key '%s'", ErrNotFound, s.key)
	}
	if err != nil {
		return fmt.Errorf("failed to read chain '%s': %w", s.key, err)
	}

	p, err := s.codec.Unmarshal(data)
	if err != nil {
		return err
	}
	c.FromPortable(p)

	s.logger.InfoContext(ctx, "Chain loaded",
		slog.String("key", string(s.key)),
		slog.Int("contexts", len(p.Transitions)),
	)
	return nil
}

// badgerLogger forwards badger's logging to slog, demoting its chatty info
// output to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Error("badger: " + fmt.Sprintf(f, v...))
}

func (l badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warn("badger: " + fmt.Sprintf(f, v...))
}

func (l badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debug("badger: " + fmt.Sprintf(f, v...))
}

func (l badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debug("badger: " + fmt.Sprintf(f, v...))
}
