package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lockplane/keygate/internal/license/service"
	"github.com/lockplane/keygate/internal/license/store"
	"github.com/lockplane/keygate/pkg/httpx"
	"github.com/lockplane/keygate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	adminToken   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AccountService *service.AccountService
	LoginService   *service.LoginService
	AdminService   *service.AdminService
	UpdateService  *service.UpdateService
	TokenService   *service.TokenService

	// ArtifactURL is the upstream location the loader binary is proxied
	// from on the download endpoint.
	ArtifactURL string
}

func NewRouter(
	adminToken, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		adminToken:   adminToken,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerClient()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{LoginService: r.LoginService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerClient() {
	// GET /client/download - session token required, entitlement re-checked
	// inside the handler so a ban or expiry lands before any bytes move
	downloadHandler := &DownloadHandler{
		LoginService: r.LoginService,
		ArtifactURL:  r.ArtifactURL,
	}
	r.Mux.Handle("GET /v1/client/download",
		httpx.Chain(downloadHandler,
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /update/check - public, lenient rate limit (loaders poll on start)
	updateHandler := &UpdateCheckHandler{UpdateService: r.UpdateService}
	r.Mux.Handle("GET /v1/update/check",
		httpx.Chain(updateHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	secured := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			RequireAdminToken(r.adminToken),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/subscription", secured(http.HandlerFunc(h.HandleGrantSubscription)))
	r.Mux.Handle("POST /v1/admin/device/reset", secured(http.HandlerFunc(h.HandleResetDevice)))
	r.Mux.Handle("POST /v1/admin/ban", secured(http.HandlerFunc(h.HandleBan)))
	r.Mux.Handle("GET /v1/admin/accounts", secured(http.HandlerFunc(h.HandleListAccounts)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
