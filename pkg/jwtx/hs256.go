package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrNoSubject  = errors.New("jwtx: missing subject")
)

// HS256 signs and verifies session tokens with a process-wide symmetric
// secret. There is deliberately no key rotation or kid handling: the token
// audience is a single service and its own loader clients.
type HS256 struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewHS256 builds a signer/verifier around the given secret. Leeway allows
// small clock skew between service instances when validating expiry.
func NewHS256(secret []byte, issuer string, leeway time.Duration) (*HS256, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256{secret: secret, issuer: issuer, leeway: leeway}, nil
}

// Sign produces a compact signed JWT from the claims.
func (h *HS256) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(h.secret)
}

// VerifyAt validates signature, structure, issuer and expiry against the
// supplied time and returns the claims. Callers get a typed sentinel so the
// failure cause can be logged without leaking it to the client.
func (h *HS256) VerifyAt(token string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(h.leeway),
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, ErrIssuer
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	if claims.Subject == "" {
		return Claims{}, ErrNoSubject
	}

	return claims, nil
}

// Verify is VerifyAt with the current time.
func (h *HS256) Verify(token string) (Claims, error) {
	return h.VerifyAt(token, time.Now())
}
