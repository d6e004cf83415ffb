package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
	"github.com/lockplane/keygate/internal/license/store"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Serialize writes at the pool level; sqlite allows one writer at a time
	// and the bind path relies on each UPDATE being a single atomic statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict translates sqlite unique-constraint violations into
// store.ErrAlreadyExists. The modernc driver exposes these only through the
// error text.
func mapConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func mapNullString(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapNullInt64(ni sql.NullInt64) *int64 {
	if ni.Valid {
		val := ni.Int64
		return &val
	}
	return nil
}

func mapOptionalInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// scanAccount reads one account row in column order
// (id, external_chat_id, username, password_hash, hwid, subscription_end, active, created_at).
func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a       domain.Account
		chatID  sql.NullInt64
		hwid    sql.NullString
		subEnd  sql.NullTime
		created time.Time
	)
	err := row.Scan(
		&a.ID,
		&chatID,
		&a.Username,
		&a.PasswordHash,
		&hwid,
		&subEnd,
		&a.Active,
		&created,
	)
	if err != nil {
		return domain.Account{}, err
	}

	a.ExternalChatID = mapNullInt64(chatID)
	a.DeviceID = mapNullString(hwid)
	a.SubscriptionEnd = mapNullTime(subEnd)
	a.CreatedAt = created
	return a, nil
}
