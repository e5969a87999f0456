package repository

import (
	"context"
	"database/sql"
	"time"

	sb "smart_budget"
)

// Accounts persists user credentials (users.json).
type Accounts interface {
	Create(user sb.User) error
	GetByUsername(username string) (*sb.User, error)
}

// LedgerStore persists one whole-document JSON ledger per user.
type LedgerStore interface {
	Load(username string) (sb.Ledger, error)
	Save(username string, l sb.Ledger) error
	Export(username string) ([]byte, error)
}

// ActivityRepo is the append-only per-user activity log.
type ActivityRepo interface {
	Append(ctx context.Context, e sb.ActivityEvent) error
	List(ctx context.Context, username string, from, to time.Time, typ string) ([]sb.ActivityEvent, error)
}

type Repository struct {
	Accounts Accounts
	Ledgers  LedgerStore
	Activity ActivityRepo
}

// NewRepository wires the file-backed stores rooted at dataDir and the
// SQLite-backed activity log.
func NewRepository(dataDir string, db *sql.DB) *Repository {
	return &Repository{
		Accounts: NewAccountFileStore(dataDir),
		Ledgers:  NewLedgerFileStore(dataDir),
		Activity: NewActivitySQLite(db),
	}
}
