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

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP creates a new account from a JSON body. The new account starts
// with no subscription and no bound device.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		registrations.WithLabelValues("invalid_request").Inc()
		licensesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	account, err := h.AccountService.Register(ctx, req.Username, req.Password, req.ExternalChatID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			registrations.WithLabelValues("username_taken").Inc()
			licensesdk.ErrUsernameTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidUsername):
			registrations.WithLabelValues("invalid_request").Inc()
			(&licensesdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        licensesdk.ErrorCodeInvalidRequest,
				Description: "username must be 3 to 20 characters",
			}).WriteError(w)
		case errors.Is(err, service.ErrInvalidPassword):
			registrations.WithLabelValues("invalid_request").Inc()
			(&licensesdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        licensesdk.ErrorCodeInvalidRequest,
				Description: "password must be at least 6 characters",
			}).WriteError(w)
		default:
			log.Error("failed to register account", "err", err)
			registrations.WithLabelValues("error").Inc()
			licensesdk.ErrServerError.WriteError(w)
		}
		return
	}

	registrations.WithLabelValues("ok").Inc()
	httpx.WriteJSON(w, http.StatusCreated, licensesdk.RegisterResponse{
		AccountID: account.ID,
		Username:  account.Username,
	})
}
