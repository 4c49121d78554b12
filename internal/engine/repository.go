package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Wossito/gym-ai/internal/sqlite"
)

// stateRepository persists the learning state document as a single JSON
// row and appends statistics exports to their own table.
type stateRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newStateRepository(db *sqlite.Database, logger *slog.Logger) *stateRepository {
	return &stateRepository{db: db, logger: logger}
}

// Load reads the persisted document. A missing row or an unreadable
// document both return nil: losing the learning state is recoverable, the
// system restarts from scratch.
func (r *stateRepository) Load(ctx context.Context) (*Document, error) {
	var raw string
	err := r.db.ReadOnly.QueryRowContext(ctx,
		"SELECT document FROM learning_state WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query learning state: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "learning state document is corrupt, starting fresh",
			slog.String("error", err.Error()))
		return nil, nil
	}
	return &doc, nil
}

// Save upserts the document.
func (r *stateRepository) Save(ctx context.Context, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal learning state: %w", err)
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO learning_state (id, document, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(raw), time.Now())
	if err != nil {
		return fmt.Errorf("upsert learning state: %w", err)
	}
	return nil
}

// SaveStatisticsExport appends an export payload.
func (r *stateRepository) SaveStatisticsExport(ctx context.Context, payload []byte) error {
	_, err := r.db.ReadWrite.ExecContext(ctx,
		"INSERT INTO stats_exports (payload, created_at) VALUES (?, ?)",
		string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("insert statistics export: %w", err)
	}
	return nil
}

// Clear removes the persisted learning state.
func (r *stateRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, "DELETE FROM learning_state"); err != nil {
		return fmt.Errorf("clear learning state: %w", err)
	}
	return nil
}
