package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
	"github.com/lockplane/keygate/internal/license/store"
	"github.com/lockplane/keygate/pkg/slogx"
)

var ErrAccountNotFound = errors.New("account_not_found")

// AdminService exposes the administrative mutations. These bypass the login
// pipeline but share the account store and its single-account atomicity.
// There is deliberately no unban: the source system treats bans as one-way.
type AdminService struct {
	Store store.Store
}

// GrantSubscription unconditionally sets the entitlement window end.
func (s *AdminService) GrantSubscription(ctx context.Context, username string, until time.Time) error {
	if err := s.mapNotFound(s.Store.Accounts().SetSubscriptionEnd(ctx, username, until)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("subscription granted",
		"username", username,
		"until", until,
	)
	return nil
}

// ResetDevice forces Bound -> Unbound so the next successful login rebinds.
func (s *AdminService) ResetDevice(ctx context.Context, username string) error {
	if err := s.mapNotFound(s.Store.Accounts().ResetDevice(ctx, username)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("device binding reset", "username", username)
	return nil
}

// Ban disables the account. Already-issued session tokens stay valid until
// they expire; the download path re-checks status on every request.
func (s *AdminService) Ban(ctx context.Context, username string) error {
	if err := s.mapNotFound(s.Store.Accounts().SetActive(ctx, username, false)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Warn("account banned", "username", username)
	return nil
}

// ListAccounts returns all accounts, newest first.
func (s *AdminService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.Store.Accounts().List(ctx)
}

// mapNotFound surfaces missing accounts as a typed outcome; administrative
// operations never silently no-op.
func (s *AdminService) mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}
