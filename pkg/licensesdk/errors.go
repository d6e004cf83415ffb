package licensesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lockplane/keygate/pkg/httpx"
)

// Error codes shared between the service and its clients. Each login outcome
// maps to a distinct code so the loader can present a specific message.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeUsernameTaken       = "username_taken"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodeBadPassword         = "bad_password"
	ErrorCodeAccountBanned       = "account_banned"
	ErrorCodeSubscriptionExpired = "subscription_expired"
	ErrorCodeNoSubscription      = "no_subscription"
	ErrorCodeDeviceMismatch      = "device_mismatch"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeMalformedVersion    = "malformed_version"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeUpstreamError       = "upstream_error"
	ErrorCodeServerError         = "server_error"
)

// APIError is the service's standard error response body. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUsernameTaken,
		Description: "that username is already registered",
	}

	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUserNotFound,
		Description: "no account with that username",
	}

	ErrBadPassword = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeBadPassword,
		Description: "wrong password",
	}

	ErrAccountBanned = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccountBanned,
		Description: "this account has been disabled",
	}

	ErrSubscriptionExpired = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeSubscriptionExpired,
		Description: "the subscription has expired",
	}

	ErrNoSubscription = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNoSubscription,
		Description: "no active subscription; contact an administrator",
	}

	ErrDeviceMismatch = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeDeviceMismatch,
		Description: "this account is bound to a different machine; contact support",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is invalid or expired",
	}

	ErrMalformedVersion = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMalformedVersion,
		Description: "version must be a dotted sequence of integers",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "no account with that username",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "administrative credentials required",
	}

	ErrUpstream = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeUpstreamError,
		Description: "failed to fetch the client artifact",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// decodeAPIError parses an error response body into a typed *APIError.
// Falls back to a generic error carrying the HTTP status when the body is
// not in the standard shape.
func decodeAPIError(resp *http.Response) error {
	var body struct {
		Code        string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response status %d", resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        body.Code,
		Description: body.Description,
	}
}
