package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite keeps the history in an in-memory SQLite database that lives as
// long as the store.
type SQLite struct {
	db       *sqlx.DB
	capacity int
}

// NewSQLite opens a private in-memory database and creates the schema.
func NewSQLite(capacity int) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, capacity: normalizeCapacity(capacity)}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) AppendIfAbsent(ctx context.Context, e Entry) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO history (video_id, title, thumbnail_url, score, analyzed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO NOTHING
	`, e.VideoID, e.Title, e.ThumbnailURL, e.Score, e.AnalyzedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("insert history %s: %w", e.VideoID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert history %s: %w", e.VideoID, err)
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)
	`, s.capacity)
	if err != nil {
		return false, fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit history: %w", err)
	}
	return true, nil
}

func (s *SQLite) Recent(ctx context.Context, n int) ([]Entry, error) {
	entries := []Entry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT video_id, title, thumbnail_url, score, analyzed_at
		FROM history ORDER BY seq DESC LIMIT ?
	`, limitFor(n, s.capacity))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
