package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a Go client for the keygate licensing service. The loader-side
// UI drives its state machine through these calls; the client itself holds no
// conversational state beyond the session token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminToken, when set, is sent as X-Admin-Token on administrative calls.
	AdminToken string

	sessionToken string
}

// NewClient creates a service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SessionToken returns the token captured by the last successful Login.
func (c *Client) SessionToken() string { return c.sessionToken }

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/v1/auth/register", req, &out, http.StatusCreated, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with username, password and hardware fingerprint. On
// success the session token is retained for Download.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/v1/auth/login", req, &out, http.StatusOK, nil); err != nil {
		return nil, err
	}
	c.sessionToken = out.Token
	return &out, nil
}

// CheckUpdate asks whether a newer loader build than clientVersion exists.
func (c *Client) CheckUpdate(ctx context.Context, clientVersion string) (*UpdateCheckResponse, error) {
	path := "/v1/update/check?version=" + url.QueryEscape(clientVersion)

	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out UpdateCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("licensesdk: decode response: %w", err)
	}
	return &out, nil
}

// Download streams the client artifact. Requires a prior successful Login.
// The caller owns the returned ReadCloser.
func (c *Client) Download(ctx context.Context) (io.ReadCloser, error) {
	if c.sessionToken == "" {
		return nil, ErrInvalidToken
	}

	headers := map[string]string{"Authorization": "Bearer " + c.sessionToken}
	resp, err := c.do(ctx, http.MethodGet, "/v1/client/download", nil, headers)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp.Body, nil
}

// GrantSubscription extends an account's subscription by days from now.
// Administrative: requires AdminToken.
func (c *Client) GrantSubscription(ctx context.Context, username string, days int) (*GrantSubscriptionResponse, error) {
	var out GrantSubscriptionResponse
	req := GrantSubscriptionRequest{Username: username, Days: days}
	if err := c.postJSON(ctx, "/v1/admin/subscription", req, &out, http.StatusOK, c.adminHeaders()); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetDevice clears an account's device binding so the next login rebinds.
// Administrative: requires AdminToken.
func (c *Client) ResetDevice(ctx context.Context, username string) error {
	return c.postJSON(ctx, "/v1/admin/device/reset", AccountRequest{Username: username}, nil, http.StatusNoContent, c.adminHeaders())
}

// Ban disables an account. Administrative: requires AdminToken.
func (c *Client) Ban(ctx context.Context, username string) error {
	return c.postJSON(ctx, "/v1/admin/ban", AccountRequest{Username: username}, nil, http.StatusNoContent, c.adminHeaders())
}

// ListAccounts returns administrative account summaries.
// Administrative: requires AdminToken.
func (c *Client) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/admin/accounts", nil, c.adminHeaders())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out ListAccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("licensesdk: decode response: %w", err)
	}
	return out.Accounts, nil
}

func (c *Client) adminHeaders() map[string]string {
	if c.AdminToken == "" {
		return nil
	}
	return map[string]string{"X-Admin-Token": c.AdminToken}
}

// do performs an HTTP request against the service.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("licensesdk: create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("licensesdk: send request: %w", err)
	}
	return resp, nil
}

// postJSON sends a JSON body and decodes a JSON response into out (out may be
// nil). Non-expected statuses decode into a typed *APIError.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	in, out any,
	expectedStatus int,
	headers map[string]string,
) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("licensesdk: encode request: %w", err)
	}

	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("licensesdk: decode response: %w", err)
	}
	return nil
}
