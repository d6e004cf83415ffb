package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lockplane/keygate/pkg/cryptox"
)

func TestRegister(t *testing.T) {
	ctx := t.Context()
	accounts, _, _ := newTestServices(t)

	chatID := int64(42)
	account, err := accounts.Register(ctx, "alice", "secret1", &chatID)
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)
	require.False(t, account.ID == "")
	require.True(t, account.Active)
	require.Nil(t, account.DeviceID)
	require.Nil(t, account.SubscriptionEnd)

	// Password is stored hashed, never verbatim.
	require.NotEqual(t, "secret1", account.PasswordHash)
	require.True(t, cryptox.VerifyPassword("secret1", account.PasswordHash))

	got, err := accounts.GetByExternalChatID(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, account.ID, got.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := t.Context()
	accounts, _, _ := newTestServices(t)

	_, err := accounts.Register(ctx, "alice", "secret1", nil)
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "alice", "other77", nil)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	ctx := t.Context()
	accounts, _, _ := newTestServices(t)

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"username too short", "ab", "secret1", ErrInvalidUsername},
		{"username too long", "abcdefghijklmnopqrstu", "secret1", ErrInvalidUsername},
		{"empty username", "", "secret1", ErrInvalidUsername},
		{"password too short", "alice", "12345", ErrInvalidPassword},
		{"empty password", "alice", "", ErrInvalidPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tc.username, tc.password, nil)
			require.ErrorIs(t, err, tc.want)
		})
	}

	// Boundary lengths are accepted.
	_, err := accounts.Register(ctx, "abc", "123456", nil)
	require.NoError(t, err)
	_, err = accounts.Register(ctx, "abcdefghijklmnopqrst", "123456", nil)
	require.NoError(t, err)
}
