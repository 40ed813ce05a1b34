// Package store persists the best score: a single integer under a fixed
// key. The engine never reads it; the frame driver submits final scores.
package store

import (
	"context"
	"errors"
	"sync"
)

// BestScoreKey is the storage identifier of the best score.
const BestScoreKey = "stackup.best-score"

// ErrClosed is returned by every call on a closed store.
var ErrClosed = errors.New("store: closed")

// BestScore reads and updates the best score.
type BestScore interface {
	// Best returns the stored best score, 0 if none.
	Best(ctx context.Context) (int, error)
	// Submit records score if it beats the stored best. It returns the
	// best after the call and whether score became the new best.
	Submit(ctx context.Context, score int) (best int, improved bool, err error)
	// Reset forgets the best score.
	Reset(ctx context.Context) error
	Close() error
}

// Memory is an in-process BestScore. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	best   int
	closed bool
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Best(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return m.best, nil
}

func (m *Memory) Submit(_ context.Context, score int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, false, ErrClosed
	}
	if score > m.best {
		m.best = score
		return m.best, true, nil
	}
	return m.best, false, nil
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.best = 0
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var (
	_ BestScore = (*Memory)(nil)
	_ BestScore = (*SQLite)(nil)
)
