package store

import (
	"context"
	"sync"

	"github.com/dvloznov/firefly-bot/internal/session"
)

// Memory is an in-memory Store. It is safe for concurrent use and hands out
// copies, so callers cannot mutate stored state through a working copy.
// Data is lost on restart - use Postgres for a real deployment.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]session.Session
	snapshots map[string]*session.Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[string]session.Session),
		snapshots: make(map[string]*session.Snapshot),
	}
}

// LoadSession implements Store.
func (m *Memory) LoadSession(ctx context.Context, userID string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := sess
	return &out, nil
}

// SaveSession implements Store.
func (m *Memory) SaveSession(ctx context.Context, userID string, sess *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = *sess
	return nil
}

// LoadSnapshot implements Store.
func (m *Memory) LoadSnapshot(ctx context.Context, userID string) (*session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return snap.Clone(), nil
}

// SaveSnapshot implements Store.
func (m *Memory) SaveSnapshot(ctx context.Context, userID string, snap *session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[userID] = snap.Clone()
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
