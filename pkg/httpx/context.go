package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUsername carries the authenticated account username injected by
	// AuthnMiddleware.
	CtxKeyUsername ctxKey = "username"
)

// UsernameFromContext returns the authenticated username, or "" if the
// request did not pass through AuthnMiddleware.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}
