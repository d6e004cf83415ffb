package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
	"github.com/lockplane/keygate/internal/license/store"
	"github.com/lockplane/keygate/pkg/cryptox"
	"github.com/lockplane/keygate/pkg/slogx"
)

var (
	ErrUserNotFound   = errors.New("user_not_found")
	ErrBadPassword    = errors.New("bad_password")
	ErrBanned         = errors.New("account_banned")
	ErrExpired        = errors.New("subscription_expired")
	ErrNoSubscription = errors.New("no_subscription")
	ErrDeviceMismatch = errors.New("device_mismatch")
)

// LoginResult is returned on a successful login. ExpiresAt is the
// subscription window end, for client display; the token carries its own
// expiry.
type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// LoginService is the login orchestrator: credential check, subscription
// evaluation, device binding and token issuance, short-circuiting on the
// first failure. The device bind is the only state mutation on the happy
// path and runs strictly after the subscription check, so an expired account
// can never consume its device slot.
type LoginService struct {
	Store  store.Store
	Tokens *TokenService
}

// Login authenticates one loader install. Retrying with the same device
// after success is idempotent: the bind re-validates and a fresh token is
// issued without mutating the stored fingerprint.
func (s *LoginService) Login(ctx context.Context, username, password, deviceID string) (*LoginResult, error) {
	now := time.Now().UTC()
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !cryptox.VerifyPassword(password, account.PasswordHash) {
		log.Info("login rejected", "username", username, "reason", "bad_password")
		return nil, ErrBadPassword
	}

	if err := statusErr(domain.SubscriptionStatusAt(account, now)); err != nil {
		log.Info("login rejected", "username", username, "reason", err.Error())
		return nil, err
	}

	// First-writer-wins bind; a single conditional write on the store side.
	bound, err := s.Store.Accounts().BindDevice(ctx, username, deviceID)
	if err != nil {
		return nil, err
	}
	if !bound {
		log.Info("login rejected", "username", username, "reason", "device_mismatch")
		return nil, ErrDeviceMismatch
	}

	token, _, err := s.Tokens.Issue(username, now)
	if err != nil {
		return nil, err
	}

	log.Info("login succeeded", "username", username)
	return &LoginResult{
		Token:     token,
		Username:  username,
		ExpiresAt: *account.SubscriptionEnd,
	}, nil
}

// Entitlement re-evaluates the account's subscription status. The download
// path calls this on every request because a subscription can expire within
// a token's lifetime.
func (s *LoginService) Entitlement(ctx context.Context, username string) error {
	account, err := s.Store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return statusErr(domain.SubscriptionStatusAt(account, time.Now().UTC()))
}

// statusErr maps a non-active subscription status to its login outcome.
func statusErr(status domain.SubscriptionStatus) error {
	switch status {
	case domain.StatusBanned:
		return ErrBanned
	case domain.StatusNoSubscription:
		return ErrNoSubscription
	case domain.StatusExpired:
		return ErrExpired
	default:
		return nil
	}
}
