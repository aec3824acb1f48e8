package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/dvloznov/firefly-bot/internal/session"
)

// Postgres is the database-backed Store. Sessions keep their own columns;
// the snapshot is one JSON payload per user, replaced wholesale on every
// refresh.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool, verifies it and creates the tables
// if they do not exist.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &Postgres{db: db}
	if err := store.initTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (p *Postgres) initTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id         TEXT PRIMARY KEY,
			ledger_url      TEXT NOT NULL DEFAULT '',
			api_key         TEXT NOT NULL DEFAULT '',
			default_account TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			user_id TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// LoadSession implements Store.
func (p *Postgres) LoadSession(ctx context.Context, userID string) (*session.Session, error) {
	var sess session.Session
	err := p.db.QueryRowContext(ctx,
		`SELECT ledger_url, api_key, default_account FROM sessions WHERE user_id = $1`,
		userID,
	).Scan(&sess.LedgerURL, &sess.APIKey, &sess.DefaultAccount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", userID, err)
	}
	return &sess, nil
}

// SaveSession implements Store.
func (p *Postgres) SaveSession(ctx context.Context, userID string, sess *session.Session) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, ledger_url, api_key, default_account)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET ledger_url = EXCLUDED.ledger_url,
		     api_key = EXCLUDED.api_key,
		     default_account = EXCLUDED.default_account`,
		userID, sess.LedgerURL, sess.APIKey, sess.DefaultAccount,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", userID, err)
	}
	return nil
}

// LoadSnapshot implements Store.
func (p *Postgres) LoadSnapshot(ctx context.Context, userID string) (*session.Snapshot, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE user_id = $1`, userID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", userID, err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("load snapshot %s: decode: %w", userID, err)
	}
	return &snap, nil
}

// SaveSnapshot implements Store.
func (p *Postgres) SaveSnapshot(ctx context.Context, userID string, snap *session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save snapshot %s: encode: %w", userID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO snapshots (user_id, payload) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload`,
		userID, payload,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", userID, err)
	}
	return nil
}

// Ensure Postgres implements Store.
var _ Store = (*Postgres)(nil)
