package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/licensesdk"
	"github.com/lockplane/keygate/pkg/slogx"
)

// RequireAdminToken gates a handler behind the X-Admin-Token header. An empty
// configured token disables the routes entirely rather than leaving them open.
func RequireAdminToken(token string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Admin-Token")
			if token == "" || presented == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				slogx.FromContext(r.Context()).Warn("admin token rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				licensesdk.ErrForbidden.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleGrantSubscription sets an account's subscription end to now plus the
// requested number of days, replacing any previous window.
func (h *AdminHandler) HandleGrantSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.GrantSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		licensesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Days <= 0 {
		(&licensesdk.APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        licensesdk.ErrorCodeInvalidRequest,
			Description: "username and a positive number of days are required",
		}).WriteError(w)
		return
	}

	until := time.Now().UTC().AddDate(0, 0, req.Days)
	if err := h.AdminService.GrantSubscription(ctx, req.Username, until); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			licensesdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("failed to grant subscription", "err", err, "username", req.Username)
		licensesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.GrantSubscriptionResponse{
		Username:        req.Username,
		SubscriptionEnd: until,
	})
}

// HandleResetDevice clears the stored hardware fingerprint so the next login
// can bind a new machine.
func (h *AdminHandler) HandleResetDevice(w http.ResponseWriter, r *http.Request) {
	h.mutateAccount(w, r, h.AdminService.ResetDevice)
}

// HandleBan deactivates an account. Banned accounts fail every subsequent
// login and download regardless of subscription state.
func (h *AdminHandler) HandleBan(w http.ResponseWriter, r *http.Request) {
	h.mutateAccount(w, r, h.AdminService.Ban)
}

func (h *AdminHandler) mutateAccount(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, username string) error,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		licensesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := op(ctx, req.Username); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			licensesdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("admin mutation failed", "err", err, "username", req.Username)
		licensesdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListAccounts returns every account without password hashes.
func (h *AdminHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accounts, err := h.AdminService.ListAccounts(ctx)
	if err != nil {
		log.Error("failed to list accounts", "err", err)
		licensesdk.ErrServerError.WriteError(w)
		return
	}

	summaries := make([]licensesdk.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, licensesdk.AccountSummary{
			ID:              a.ID,
			Username:        a.Username,
			ExternalChatID:  a.ExternalChatID,
			DeviceBound:     a.DeviceBound(),
			SubscriptionEnd: a.SubscriptionEnd,
			Active:          a.Active,
			CreatedAt:       a.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.ListAccountsResponse{Accounts: summaries})
}
