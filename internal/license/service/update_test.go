package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lockplane/keygate/pkg/versionx"
)

func TestUpdateService_Check(t *testing.T) {
	svc, err := NewUpdateService("1.4.0", "https://dl.example.com/loader-1.4.0.exe", "Fixed injection on 24H2")
	require.NoError(t, err)

	t.Run("older client is told to update", func(t *testing.T) {
		info, err := svc.Check("1.3.2")
		require.NoError(t, err)
		require.True(t, info.UpdateAvailable)
		require.Equal(t, "1.4.0", info.LatestVersion)
		require.Equal(t, "https://dl.example.com/loader-1.4.0.exe", info.DownloadURL)
		require.Equal(t, "Fixed injection on 24H2", info.Changelog)
	})

	t.Run("current client gets no payload", func(t *testing.T) {
		info, err := svc.Check("1.4.0")
		require.NoError(t, err)
		require.False(t, info.UpdateAvailable)
		require.Empty(t, info.DownloadURL)
		require.Empty(t, info.Changelog)
	})

	t.Run("trailing zeros do not count as older", func(t *testing.T) {
		info, err := svc.Check("1.4")
		require.NoError(t, err)
		require.False(t, info.UpdateAvailable)
	})

	t.Run("newer client gets no payload", func(t *testing.T) {
		info, err := svc.Check("2.0")
		require.NoError(t, err)
		require.False(t, info.UpdateAvailable)
	})

	t.Run("malformed client version", func(t *testing.T) {
		_, err := svc.Check("1.4.x")
		require.ErrorIs(t, err, versionx.ErrMalformed)
	})
}

func TestNewUpdateService_RejectsBadLatest(t *testing.T) {
	_, err := NewUpdateService("not.a.version", "https://dl.example.com", "")
	require.Error(t, err)
}
