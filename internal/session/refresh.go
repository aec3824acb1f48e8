package session

import (
	"context"
	"fmt"

	"github.com/dvloznov/firefly-bot/internal/logger"
)

// Refresher rebuilds a user's snapshot from the ledger and persists it.
type Refresher struct {
	ledger Ledger
	store  SnapshotStore
}

// NewRefresher creates a Refresher.
func NewRefresher(ledger Ledger, store SnapshotStore) *Refresher {
	return &Refresher{ledger: ledger, store: store}
}

// Refresh fetches the complete category and account lists, partitions the
// accounts by role and persists the result. On any failure the previously
// persisted snapshot is left untouched and the error is returned for the
// caller to log; nothing is partially written.
func (r *Refresher) Refresh(ctx context.Context, userID string, sess *Session) (*Snapshot, error) {
	log := logger.FromContext(ctx)
	creds := sess.Credentials()

	categories, err := r.ledger.ListCategories(ctx, creds)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch categories")
		return nil, fmt.Errorf("refresh: categories: %w", err)
	}

	accounts, err := r.ledger.ListAccounts(ctx, creds)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch accounts")
		return nil, fmt.Errorf("refresh: accounts: %w", err)
	}

	snap := BuildSnapshot(categories, accounts, sess.DefaultAccount)
	if err := r.store.SaveSnapshot(ctx, userID, snap); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to persist snapshot")
		return nil, fmt.Errorf("refresh: persist snapshot: %w", err)
	}

	log.Debug().
		Str("user_id", userID).
		Int("categories", len(snap.Categories)).
		Int("accounts", len(snap.AccountIDs)).
		Msg("Snapshot refreshed")
	return snap, nil
}
