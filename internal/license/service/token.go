package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockplane/keygate/pkg/jwtx"
	"github.com/lockplane/keygate/pkg/slogx"
)

// ErrInvalidToken collapses signature mismatch, structural corruption and
// expiry into one caller-facing outcome. The specific cause is logged
// internally but never surfaced.
var ErrInvalidToken = errors.New("invalid_token")

// TokenService issues and verifies stateless session tokens. Tokens carry
// the username and a fixed expiry; the service holds no per-token record, so
// a ban does not recall tokens already in flight (they age out within TTL).
type TokenService struct {
	Signer *jwtx.HS256
	Issuer string
	TTL    time.Duration
}

// Issue creates a session token for username, valid for TTL from now.
func (s *TokenService) Issue(username string, now time.Time) (string, time.Time, error) {
	claims := jwtx.NewSessionClaims(username, s.Issuer, s.TTL, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAtTime(), nil
}

// Authorize validates a session token at the given time and returns the
// subject username. Any failure maps to ErrInvalidToken.
func (s *TokenService) Authorize(ctx context.Context, token string, now time.Time) (string, error) {
	claims, err := s.Signer.VerifyAt(token, now)
	if err != nil {
		slogx.FromContext(ctx).Info("session token rejected", "cause", err)
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Verify satisfies jwtx.Verifier so the token service can back the HTTP
// authentication middleware directly.
func (s *TokenService) Verify(token string) (jwtx.Claims, error) {
	return s.Signer.Verify(token)
}
