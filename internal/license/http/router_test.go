package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/internal/license/store"
	"github.com/lockplane/keygate/internal/license/store/drivers/sqlite"
	"github.com/lockplane/keygate/pkg/cryptox"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/jwtx"
	"github.com/lockplane/keygate/pkg/licensesdk"
	"github.com/lockplane/keygate/pkg/slogx"
)

const testAdminToken = "test-admin-token"

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "keygate-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)
	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	// The per-route limiters would throttle multi-step test flows.
	relaxed := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit = relaxed
	httpx.ModerateLimit = relaxed
	httpx.LenientLimit = relaxed

	os.Exit(m.Run())
}

// newTestServer stands up the full HTTP surface over an in-memory store and
// returns an SDK client pointed at it.
func newTestServer(t *testing.T, artifactURL string) (*licensesdk.Client, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "keygate-test", 0)
	require.NoError(t, err)
	tokens := &service.TokenService{Signer: signer, Issuer: "keygate-test", TTL: jwtx.DefaultSessionTTL}

	updates, err := service.NewUpdateService("1.4.0", "https://dl.example.com/loader-1.4.0.exe", "stability fixes")
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{
		Service: "license",
		Version: "test",
		Env:     "dev",
		Level:   "error",
		Format:  "text",
	})

	router := NewRouter(testAdminToken, "test", st, logger)
	router.AccountService = &service.AccountService{Store: st}
	router.LoginService = &service.LoginService{Store: st, Tokens: tokens}
	router.AdminService = &service.AdminService{Store: st}
	router.UpdateService = updates
	router.TokenService = tokens
	router.ArtifactURL = artifactURL
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client := licensesdk.NewClient(srv.URL)
	client.AdminToken = testAdminToken
	return client, st
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *licensesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
}

func TestEndToEnd_LoaderLifecycle(t *testing.T) {
	ctx := t.Context()

	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("loader-bytes"))
	}))
	t.Cleanup(artifact.Close)

	client, _ := newTestServer(t, artifact.URL+"/loader-1.4.0.exe")

	reg, err := client.Register(ctx, licensesdk.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "alice", reg.Username)
	require.NotEmpty(t, reg.AccountID)

	// No subscription yet: login refused with a specific code.
	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "secret1", HWID: "HWID-1"})
	requireCode(t, err, licensesdk.ErrorCodeNoSubscription)

	grant, err := client.GrantSubscription(ctx, "alice", 30)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), grant.SubscriptionEnd, time.Minute)

	login, err := client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "secret1", HWID: "HWID-1"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.WithinDuration(t, grant.SubscriptionEnd, login.ExpiresAt, time.Second)

	// The bound device rejects other machines until an admin reset.
	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "secret1", HWID: "HWID-2"})
	requireCode(t, err, licensesdk.ErrorCodeDeviceMismatch)

	require.NoError(t, client.ResetDevice(ctx, "alice"))

	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "secret1", HWID: "HWID-2"})
	require.NoError(t, err)

	body, err := client.Download(ctx)
	require.NoError(t, err)
	defer body.Close()
	payload, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "loader-bytes", string(payload))

	// Banned accounts lose download access even with a live token.
	require.NoError(t, client.Ban(ctx, "alice"))
	_, err = client.Download(ctx)
	requireCode(t, err, licensesdk.ErrorCodeAccountBanned)

	accounts, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "alice", accounts[0].Username)
	require.True(t, accounts[0].DeviceBound)
	require.False(t, accounts[0].Active)
}

func TestEndToEnd_LoginErrors(t *testing.T) {
	ctx := t.Context()
	client, _ := newTestServer(t, "http://127.0.0.1:0/unused")

	_, err := client.Register(ctx, licensesdk.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = client.Register(ctx, licensesdk.RegisterRequest{Username: "alice", Password: "other77"})
	requireCode(t, err, licensesdk.ErrorCodeUsernameTaken)

	_, err = client.Register(ctx, licensesdk.RegisterRequest{Username: "ab", Password: "secret1"})
	requireCode(t, err, licensesdk.ErrorCodeInvalidRequest)

	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "ghost", Password: "x", HWID: "HWID-1"})
	requireCode(t, err, licensesdk.ErrorCodeUserNotFound)

	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "wrong", HWID: "HWID-1"})
	requireCode(t, err, licensesdk.ErrorCodeBadPassword)

	_, err = client.Login(ctx, licensesdk.LoginRequest{Username: "alice", Password: "secret1"})
	requireCode(t, err, licensesdk.ErrorCodeInvalidRequest)
}

func TestEndToEnd_UpdateCheck(t *testing.T) {
	ctx := t.Context()
	client, _ := newTestServer(t, "http://127.0.0.1:0/unused")

	behind, err := client.CheckUpdate(ctx, "1.3.9")
	require.NoError(t, err)
	require.True(t, behind.UpdateAvailable)
	require.Equal(t, "1.4.0", behind.LatestVersion)
	require.NotEmpty(t, behind.DownloadURL)

	current, err := client.CheckUpdate(ctx, "1.4")
	require.NoError(t, err)
	require.False(t, current.UpdateAvailable)
	require.Empty(t, current.DownloadURL)

	_, err = client.CheckUpdate(ctx, "1.x")
	requireCode(t, err, licensesdk.ErrorCodeMalformedVersion)
}

func TestEndToEnd_AdminAuth(t *testing.T) {
	ctx := t.Context()
	client, _ := newTestServer(t, "http://127.0.0.1:0/unused")

	client.AdminToken = "wrong-token"
	_, err := client.GrantSubscription(ctx, "alice", 30)
	requireCode(t, err, licensesdk.ErrorCodeForbidden)

	client.AdminToken = ""
	_, err = client.ListAccounts(ctx)
	requireCode(t, err, licensesdk.ErrorCodeForbidden)

	client.AdminToken = testAdminToken
	err = client.Ban(ctx, "ghost")
	requireCode(t, err, licensesdk.ErrorCodeNotFound)
}

func TestSystemEndpoints(t *testing.T) {
	client, _ := newTestServer(t, "http://127.0.0.1:0/unused")

	for _, path := range []string{"/livez", "/readyz", "/metrics"} {
		resp, err := http.Get(client.BaseURL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestDownload_RequiresToken(t *testing.T) {
	client, _ := newTestServer(t, "http://127.0.0.1:0/unused")

	// No login yet: the SDK refuses locally.
	_, err := client.Download(t.Context())
	requireCode(t, err, licensesdk.ErrorCodeInvalidToken)

	// A garbage bearer token is refused by the server.
	req, err := http.NewRequest(http.MethodGet, client.BaseURL+"/v1/client/download", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
