package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/licensesdk"
	"github.com/lockplane/keygate/pkg/slogx"
)

type DownloadHandler struct {
	LoginService *service.LoginService
	ArtifactURL  string

	// Client is the HTTP client used to fetch the upstream artifact.
	// Defaults to http.DefaultClient.
	Client *http.Client
}

// ServeHTTP proxies the loader binary to an authenticated caller. The session
// token alone is not enough: entitlement is re-checked against the store so
// an account banned or expired after login cannot pull the artifact.
func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		artifactDownloads.WithLabelValues("unauthorized").Inc()
		licensesdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.LoginService.Entitlement(ctx, username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			artifactDownloads.WithLabelValues("unauthorized").Inc()
			licensesdk.ErrUserNotFound.WriteError(w)
		case errors.Is(err, service.ErrBanned):
			artifactDownloads.WithLabelValues("forbidden").Inc()
			licensesdk.ErrAccountBanned.WriteError(w)
		case errors.Is(err, service.ErrExpired):
			artifactDownloads.WithLabelValues("forbidden").Inc()
			licensesdk.ErrSubscriptionExpired.WriteError(w)
		case errors.Is(err, service.ErrNoSubscription):
			artifactDownloads.WithLabelValues("forbidden").Inc()
			licensesdk.ErrNoSubscription.WriteError(w)
		default:
			log.Error("entitlement check failed", "err", err, "username", username)
			artifactDownloads.WithLabelValues("error").Inc()
			licensesdk.ErrServerError.WriteError(w)
		}
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.ArtifactURL, nil)
	if err != nil {
		log.Error("bad artifact url", "err", err)
		artifactDownloads.WithLabelValues("error").Inc()
		licensesdk.ErrServerError.WriteError(w)
		return
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error("artifact fetch failed", "err", err)
		artifactDownloads.WithLabelValues("upstream_error").Inc()
		licensesdk.ErrUpstream.WriteError(w)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("artifact fetch returned non-200", "status", resp.StatusCode)
		artifactDownloads.WithLabelValues("upstream_error").Inc()
		licensesdk.ErrUpstream.WriteError(w)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", artifactFilename(h.ArtifactURL)))
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already out; nothing left to do but note it.
		log.Warn("artifact stream interrupted", "err", err, "username", username)
		return
	}

	artifactDownloads.WithLabelValues("ok").Inc()
	log.Info("artifact served", "username", username)
}

func artifactFilename(artifactURL string) string {
	u, err := url.Parse(artifactURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "loader.bin"
	}
	return path.Base(u.Path)
}
