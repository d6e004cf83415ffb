package http

import (
	"net/http"
	"time"

	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/licensesdk"
)

// LivezHandler always returns 200 OK while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := licensesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
