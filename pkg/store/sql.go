package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/markovchain/pkg/markov"
)

// SetupSchema initializes the tables used by SQLStore in the provided
// database. It is idempotent and safe to call on an already-initialized
// database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS markov_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    model_order INTEGER NOT NULL
);
`
		schemaTransitions = `
CREATE TABLE IF NOT EXISTS markov_transitions (
    model_id INTEGER NOT NULL,
    context_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    next_token TEXT NOT NULL,
    frequency INTEGER NOT NULL,
    PRIMARY KEY (model_id, context_key, next_token)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}

	if _, err = tx.Exec(schemaTransitions); err != nil {
		return fmt.Errorf("could not create transitions schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// ModelInfo holds the metadata stored for a named chain.
type ModelInfo struct {
	Id    int
	Name  string
	Order int
}

// SQLStore persists named chains in a SQL database prepared with
// SetupSchema. Each Save replaces the stored transitions of its model.
type SQLStore struct {
	db               *sql.DB
	model            string
	stmtGetModelInfo *sql.Stmt
	stmtGetModels    *sql.Stmt
	logger           *slog.Logger
}

// NewSQLStore creates a store for the chain named model. It pre-compiles the
// lookup statements, returning an error if any preparation fails.
func NewSQLStore(db *sql.DB, model string) (*SQLStore, error) {
	stmtGetModelInfo, err := db.Prepare(`SELECT model_id, model_order FROM markov_models WHERE model_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetModels, err := db.Prepare(`SELECT model_id, model_name, model_order FROM markov_models ORDER BY model_name;`)
	if err != nil {
		_ = stmtGetModelInfo.Close()
		return nil, err
	}

	return &SQLStore{
		db:               db,
		model:            model,
		stmtGetModelInfo: stmtGetModelInfo,
		stmtGetModels:    stmtGetModels,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements. The database itself is left open.
func (s *SQLStore) Close() {
	_ = s.stmtGetModelInfo.Close()
	_ = s.stmtGetModels.Close()
}

// SetLogger sets the logger for the store. By default, all logs are discarded.
func (s *SQLStore) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Save writes c under the store's model name, creating the model if needed
// and replacing any transitions stored before. The operation is performed
// within a transaction.
func (s *SQLStore) Save(ctx context.Context, c *markov.Chain) error {
	p := c.ToPortable()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for save: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO markov_models (model_name, model_order) VALUES (?, ?)
		ON CONFLICT(model_name) DO UPDATE SET model_order = excluded.model_order
		RETURNING model_id;
	`, s.model, p.Order).Scan(&modelID)
	if err != nil {
		return fmt.Errorf("failed to upsert model '%s': %w", s.model, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_transitions WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to clear transitions for model %d: %w", modelID, err)
	}

	stmtInsert, err := tx.PrepareContext(ctx, `INSERT INTO markov_transitions (model_id, context_key, position, next_token, frequency) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare transition insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsert)

	var links int
	for key, entries := range p.Transitions {
		for i, e := range entries {
			if _, err = stmtInsert.ExecContext(ctx, modelID, key, i, e.Token, e.Count); err != nil {
				return fmt.Errorf("failed to insert transition ('%s' -> '%s'): %w", key, e.Token, err)
			}
			links++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit save of model '%s': %w", s.model, err)
	}

	s.logger.InfoContext(ctx, "Model saved",
		slog.String("model_name", s.model),
		slog.Int("model_id", modelID),
		slog.Int("contexts", len(p.Transitions)),
		slog.Int("links", links),
	)
	return nil
}

// Load reads the store's model and merges it into c. An unknown model
// yields an error matching ErrNotFound.
func (s *SQLStore) Load(ctx context.Context, c *markov.Chain) error {
	info, err := s.modelInfo(ctx, s.model)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT context_key, next_token, frequency FROM markov_transitions WHERE model_id = ? ORDER BY context_key, position;`, info.Id)
	if err != nil {
		return fmt.Errorf("could not query transitions for model %d: %w", info.Id, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	p := &markov.Portable{
		Type:        markov.PortableType,
		Order:       info.Order,
		Transitions: make(markov.Transitions),
	}
	for rows.Next() {
		var key string
		var e markov.Transition
		if err = rows.Scan(&key, &e.Token, &e.Count); err != nil {
			return err
		}
		p.Transitions[key] = append(p.Transitions[key], e)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	c.FromPortable(p)

	s.logger.InfoContext(ctx, "Model loaded",
		slog.String("model_name", info.Name),
		slog.Int("model_id", info.Id),
		slog.Int("contexts", len(p.Transitions)),
	)
	return nil
}

// Models returns every model in the database, ordered by name.
func (s *SQLStore) Models(ctx context.Context) ([]ModelInfo, error) {
	rows, err := s.stmtGetModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var models []ModelInfo
	for rows.Next() {
		var model ModelInfo
		if err = rows.Scan(&model.Id, &model.Name, &model.Order); err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// RemoveModel deletes a model and all of its transitions from the database.
// Removing an unknown model is not an error. The operation is performed
// within a transaction.
func (s *SQLStore) RemoveModel(ctx context.Context, name string) error {
	info, err := s.modelInfo(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_transitions WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove transitions for model %d: %w", info.Id, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_models WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Model removed successfully",
		slog.String("model_name", info.Name),
		slog.Int("model_id", info.Id),
	)

	return tx.Commit()
}

func (s *SQLStore) modelInfo(ctx context.Context, name string) (ModelInfo, error) {
	info := ModelInfo{Name: name}
	err := s.stmtGetModelInfo.QueryRowContext(ctx, name).Scan(&info.Id, &info.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return ModelInfo{}, fmt.Errorf("%w: model '%s'", ErrNotFound, name)
	}
	if err != nil {
		return ModelInfo{}, fmt.Errorf("could not get model '%s': %w", name, err)
	}
	return info, nil
}
