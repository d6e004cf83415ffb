package store

import (
	"context"
	"errors"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Every operation is atomic at single-account granularity;
// the bind path in particular is a single conditional write, never a read
// followed by a write.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// GetByUsername is the login-path lookup.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetByExternalChatID resolves the account linked to a messaging
	// front-end identity.
	GetByExternalChatID(ctx context.Context, chatID int64) (domain.Account, error)

	// Create inserts a new account (id is provided by the service via ULID).
	// Returns ErrAlreadyExists when the username or external chat id is
	// already registered.
	Create(ctx context.Context, a domain.Account) error

	// BindDevice attempts the first-writer-wins device bind as one atomic
	// conditional write: it succeeds when the account is unbound or already
	// bound to the same deviceID, and reports false when the account is bound
	// to a different device. Two concurrent binds for a never-bound account
	// must yield exactly one winner.
	BindDevice(ctx context.Context, username, deviceID string) (bool, error)

	// SetSubscriptionEnd unconditionally sets the entitlement window end.
	SetSubscriptionEnd(ctx context.Context, username string, until time.Time) error

	// SetActive flips the banned/disabled flag.
	SetActive(ctx context.Context, username string, active bool) error

	// ResetDevice clears the device binding (administrative only).
	ResetDevice(ctx context.Context, username string) error

	// List returns all accounts ordered by creation date (newest first).
	List(ctx context.Context) ([]domain.Account, error)
}
