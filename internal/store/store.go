package store

import (
	"context"
	"errors"

	"github.com/dvloznov/firefly-bot/internal/session"
)

// ErrNotFound is returned when a user has no stored session or snapshot.
var ErrNotFound = errors.New("not found")

// Store persists per-user sessions and snapshots. Both are loaded at the
// start of a user-facing operation and never cached across operations; the
// store is the only cross-request state in the system.
type Store interface {
	LoadSession(ctx context.Context, userID string) (*session.Session, error)
	SaveSession(ctx context.Context, userID string, sess *session.Session) error
	LoadSnapshot(ctx context.Context, userID string) (*session.Snapshot, error)
	SaveSnapshot(ctx context.Context, userID string, snap *session.Snapshot) error
}
