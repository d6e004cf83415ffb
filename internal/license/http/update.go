package http

import (
	"errors"
	"net/http"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/licensesdk"
	"github.com/lockplane/keygate/pkg/versionx"
)

type UpdateCheckHandler struct {
	UpdateService *service.UpdateService
}

// ServeHTTP compares the caller's version query parameter against the latest
// published loader build. The download URL and changelog are only disclosed
// when the caller is actually behind.
func (h *UpdateCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientVersion := r.URL.Query().Get("version")
	if clientVersion == "" {
		updateChecks.WithLabelValues("invalid_request").Inc()
		(&licensesdk.APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        licensesdk.ErrorCodeInvalidRequest,
			Description: "version query parameter is required",
		}).WriteError(w)
		return
	}

	info, err := h.UpdateService.Check(clientVersion)
	if err != nil {
		if errors.Is(err, versionx.ErrMalformed) {
			updateChecks.WithLabelValues("malformed").Inc()
			licensesdk.ErrMalformedVersion.WriteError(w)
			return
		}
		updateChecks.WithLabelValues("error").Inc()
		licensesdk.ErrServerError.WriteError(w)
		return
	}

	result := "current"
	if info.UpdateAvailable {
		result = "outdated"
	}
	updateChecks.WithLabelValues(result).Inc()

	httpx.WriteJSON(w, http.StatusOK, licensesdk.UpdateCheckResponse{
		UpdateAvailable: info.UpdateAvailable,
		LatestVersion:   info.LatestVersion,
		DownloadURL:     info.DownloadURL,
		Changelog:       info.Changelog,
	})
}
