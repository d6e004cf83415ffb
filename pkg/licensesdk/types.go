package licensesdk

import "time"

// RegisterRequest creates a new account. ExternalChatID optionally links the
// account to the messaging front-end identity that drove the registration.
type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	ExternalChatID *int64 `json:"external_chat_id,omitempty"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// LoginRequest authenticates a loader install. HWID is the hardware
// fingerprint of the machine the loader is running on.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	HWID     string `json:"hwid"`
}

// LoginResponse carries the session token and the subscription expiry for
// client display.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateCheckResponse reports whether a newer loader build is available.
// DownloadURL and Changelog are only populated when UpdateAvailable is true.
type UpdateCheckResponse struct {
	UpdateAvailable bool   `json:"update_available"`
	LatestVersion   string `json:"latest_version"`
	DownloadURL     string `json:"download_url,omitempty"`
	Changelog       string `json:"changelog,omitempty"`
}

// GrantSubscriptionRequest extends an account's subscription window by the
// given number of days from now.
type GrantSubscriptionRequest struct {
	Username string `json:"username"`
	Days     int    `json:"days"`
}

// GrantSubscriptionResponse reports the resulting subscription end.
type GrantSubscriptionResponse struct {
	Username        string    `json:"username"`
	SubscriptionEnd time.Time `json:"subscription_end"`
}

// AccountRequest names an account for device reset and ban operations.
type AccountRequest struct {
	Username string `json:"username"`
}

// AccountSummary is the administrative view of an account. Password hashes
// are never included.
type AccountSummary struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	ExternalChatID  *int64     `json:"external_chat_id,omitempty"`
	DeviceBound     bool       `json:"device_bound"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ListAccountsResponse wraps the administrative account listing.
type ListAccountsResponse struct {
	Accounts []AccountSummary `json:"accounts"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency health for readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
