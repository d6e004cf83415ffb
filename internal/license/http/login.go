package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/licensesdk"
	"github.com/lockplane/keygate/pkg/slogx"
)

type LoginHandler struct {
	LoginService *service.LoginService
}

// ServeHTTP authenticates a loader install and returns a session token. Each
// failure mode maps to a distinct error code so the loader can show the user
// what went wrong without guessing.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		loginAttempts.WithLabelValues("invalid_request").Inc()
		licensesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" || req.HWID == "" {
		loginAttempts.WithLabelValues("invalid_request").Inc()
		(&licensesdk.APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        licensesdk.ErrorCodeInvalidRequest,
			Description: "username, password and hwid are required",
		}).WriteError(w)
		return
	}

	result, err := h.LoginService.Login(ctx, req.Username, req.Password, req.HWID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			loginAttempts.WithLabelValues("user_not_found").Inc()
			licensesdk.ErrUserNotFound.WriteError(w)
		case errors.Is(err, service.ErrBadPassword):
			loginAttempts.WithLabelValues("bad_password").Inc()
			licensesdk.ErrBadPassword.WriteError(w)
		case errors.Is(err, service.ErrBanned):
			loginAttempts.WithLabelValues("banned").Inc()
			licensesdk.ErrAccountBanned.WriteError(w)
		case errors.Is(err, service.ErrExpired):
			loginAttempts.WithLabelValues("expired").Inc()
			licensesdk.ErrSubscriptionExpired.WriteError(w)
		case errors.Is(err, service.ErrNoSubscription):
			loginAttempts.WithLabelValues("no_subscription").Inc()
			licensesdk.ErrNoSubscription.WriteError(w)
		case errors.Is(err, service.ErrDeviceMismatch):
			loginAttempts.WithLabelValues("device_mismatch").Inc()
			licensesdk.ErrDeviceMismatch.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			loginAttempts.WithLabelValues("error").Inc()
			licensesdk.ErrServerError.WriteError(w)
		}
		return
	}

	loginAttempts.WithLabelValues("ok").Inc()
	httpx.WriteJSON(w, http.StatusOK, licensesdk.LoginResponse{
		Token:     result.Token,
		Username:  result.Username,
		ExpiresAt: result.ExpiresAt,
	})
}
