package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscriptionStatusAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		account Account
		want    SubscriptionStatus
	}{
		{
			name:    "future subscription and active",
			account: Account{Active: true, SubscriptionEnd: &future},
			want:    StatusActive,
		},
		{
			name:    "no subscription end",
			account: Account{Active: true},
			want:    StatusNoSubscription,
		},
		{
			name:    "past subscription end",
			account: Account{Active: true, SubscriptionEnd: &past},
			want:    StatusExpired,
		},
		{
			name:    "subscription ending exactly now is expired",
			account: Account{Active: true, SubscriptionEnd: &now},
			want:    StatusExpired,
		},
		{
			name:    "banned overrides valid subscription",
			account: Account{Active: false, SubscriptionEnd: &future},
			want:    StatusBanned,
		},
		{
			name:    "banned overrides expired subscription",
			account: Account{Active: false, SubscriptionEnd: &past},
			want:    StatusBanned,
		},
		{
			name:    "banned overrides missing subscription",
			account: Account{Active: false},
			want:    StatusBanned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SubscriptionStatusAt(tt.account, now))
		})
	}
}

func TestDeviceBound(t *testing.T) {
	hwid := "HWID-1"
	empty := ""

	require.False(t, Account{}.DeviceBound())
	require.False(t, Account{DeviceID: &empty}.DeviceBound())
	require.True(t, Account{DeviceID: &hwid}.DeviceBound())
}
