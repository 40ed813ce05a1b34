package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS best_scores (
	key TEXT PRIMARY KEY,
	score INTEGER NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLite keeps the best score in a SQLite database file.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// OpenSQLite opens or creates the database at path, creating parent
// directories as needed.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers; SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Best(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.best(ctx, s.db)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) best(ctx context.Context, q queryer) (int, error) {
	var score int
	err := q.QueryRowContext(ctx, `SELECT score FROM best_scores WHERE key = ?`, BestScoreKey).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	return score, nil
}

func (s *SQLite) Submit(ctx context.Context, score int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin submit: %w", err)
	}
	defer tx.Rollback()

	best, err := s.best(ctx, tx)
	if err != nil {
		return 0, false, err
	}
	if score <= best {
		return best, false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO best_scores (key, score, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
	`, BestScoreKey, score, time.Now().UTC())
	if err != nil {
		return 0, false, fmt.Errorf("write best score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit best score: %w", err)
	}
	return score, true, nil
}

func (s *SQLite) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM best_scores WHERE key = ?`, BestScoreKey); err != nil {
		return fmt.Errorf("reset best score: %w", err)
	}
	return nil
}

// Close closes the database. Calling it again is a no-op.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
