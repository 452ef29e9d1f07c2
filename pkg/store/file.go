package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CTAG07/markovchain/pkg/markov"
	"github.com/natefinch/atomic"
)

// FileStore persists a single chain to a file.
type FileStore struct {
	path   string
	codec  Codec
	logger *slog.Logger
}

// NewFileStore creates a FileStore for path. A nil codec selects JSON.
func NewFileStore(path string, codec Codec) *FileStore {
	if codec == nil {
		codec = JSON
	}
	return &FileStore{
		path:   path,
		codec:  codec,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the store. By default, all logs are discarded.
func (s *FileStore) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Save encodes c and atomically replaces the file, creating its directory
// if needed.
func (s *FileStore) Save(ctx context.Context, c *markov.Chain) error {
	data, err := s.codec.Marshal(c.ToPortable())
	if err != nil {
		return fmt.Errorf("failed to encode chain: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for '%s': %w", s.path, err)
		}
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write chain file '%s': %w", s.path, err)
	}

	s.logger.InfoContext(ctx, "Chain saved",
		slog.String("path", s.path),
		slog.String("codec", s.codec.Name()),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Load reads the file and merges its transitions into c. A missing file
// yields an error matching ErrNotFound.
func (s *FileStore) Load(ctx context.Context, c *markov.Chain) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("failed to read chain file '%s': %w", s.path, err)
	}
	p, err := s.codec.Unmarshal(data)
	if err != nil {
		return err
	}
	c.FromPortable(p)

	s.logger.InfoContext(ctx, "Chain loaded",
		slog.String("path", s.path),
		slog.String("codec", s.codec.Name()),
		slog.Int("contexts", len(p.Transitions)),
	)
	return nil
}
