package session

import (
	"context"

	"github.com/dvloznov/firefly-bot/internal/firefly"
)

// Ledger is the slice of the ledger client the refresh operation needs.
type Ledger interface {
	ListCategories(ctx context.Context, creds firefly.Credentials) ([]string, error)
	ListAccounts(ctx context.Context, creds firefly.Credentials) ([]firefly.Account, error)
}

// SnapshotStore persists refreshed snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, userID string, snap *Snapshot) error
}
