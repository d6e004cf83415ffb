package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
	"github.com/lockplane/keygate/internal/license/store"
)

const accountColumns = `id, external_chat_id, username, password_hash, hwid, subscription_end, active, created_at`

type accountsRepo struct {
	db *sql.DB
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByExternalChatID(ctx context.Context, chatID int64) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE external_chat_id = ?`, chatID)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		mapOptionalInt64(a.ExternalChatID),
		a.Username,
		a.PasswordHash,
		mapOptionalString(a.DeviceID),
		mapOptionalTime(a.SubscriptionEnd),
		a.Active,
		a.CreatedAt,
	)
	return mapConflict(err)
}

// BindDevice is the first-writer-wins bind. The WHERE clause makes the
// unbound check and the write one indivisible statement: of two concurrent
// first logins with different fingerprints, exactly one matches the
// `hwid IS NULL` predicate and the other observes zero affected rows.
// Re-binding the same device matches the `hwid = ?` arm and stays a no-op.
func (r *accountsRepo) BindDevice(ctx context.Context, username, deviceID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET hwid = ? WHERE username = ? AND (hwid IS NULL OR hwid = ?)`,
		deviceID, username, deviceID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *accountsRepo) SetSubscriptionEnd(ctx context.Context, username string, until time.Time) error {
	return r.mutate(ctx,
		`UPDATE accounts SET subscription_end = ? WHERE username = ?`, until, username)
}

func (r *accountsRepo) SetActive(ctx context.Context, username string, active bool) error {
	return r.mutate(ctx,
		`UPDATE accounts SET active = ? WHERE username = ?`, active, username)
}

func (r *accountsRepo) ResetDevice(ctx context.Context, username string) error {
	return r.mutate(ctx,
		`UPDATE accounts SET hwid = NULL WHERE username = ?`, username)
}

func (r *accountsRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// mutate runs a single-row UPDATE and reports ErrNotFound when the username
// did not resolve. Administrative mutations never silently no-op.
func (r *accountsRepo) mutate(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
