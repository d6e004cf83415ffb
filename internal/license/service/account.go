package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockplane/keygate/internal/license/domain"
	"github.com/lockplane/keygate/internal/license/store"
	"github.com/lockplane/keygate/pkg/cryptox"
	"github.com/lockplane/keygate/pkg/idx"
	"github.com/lockplane/keygate/pkg/slogx"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
)

var (
	ErrUsernameTaken   = errors.New("username_taken")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrInvalidPassword = errors.New("invalid_password")
)

// AccountService creates accounts and serves profile lookups for the
// messaging front-end.
type AccountService struct {
	Store store.Store
}

// Register creates a new account. Usernames are case-sensitive, unique and
// immutable; uniqueness is enforced by the store at creation time and never
// revisited. The new account starts unbound, unsubscribed and active.
func (s *AccountService) Register(
	ctx context.Context,
	username, password string,
	externalChatID *int64,
) (domain.Account, error) {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return domain.Account{}, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return domain.Account{}, ErrInvalidPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:             idx.New().String(),
		ExternalChatID: externalChatID,
		Username:       username,
		PasswordHash:   hash,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrUsernameTaken
		}
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account registered",
		"account_id", account.ID,
		"username", account.Username,
	)
	return account, nil
}

// GetByExternalChatID resolves the account linked to a messaging front-end
// identity, for profile display and self-service flows.
func (s *AccountService) GetByExternalChatID(ctx context.Context, chatID int64) (domain.Account, error) {
	return s.Store.Accounts().GetByExternalChatID(ctx, chatID)
}
