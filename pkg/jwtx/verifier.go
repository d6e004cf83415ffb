package jwtx

// Verifier validates a session token and gives you back the claims if it's
// legit. *HS256 satisfies this; handlers depend on the interface so tests can
// substitute a stub.
type Verifier interface {
	Verify(token string) (Claims, error)
}
