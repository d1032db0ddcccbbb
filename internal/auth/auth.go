// Package auth gates the trigger endpoint behind the cron bearer secret.
//
// In production every request must carry "Authorization: Bearer <CRON_SECRET>".
// Outside production all requests are allowed, which keeps local and preview
// deployments triggerable without a secret. Enforcement is decided once at
// startup from the deployment environment, never silently at request time.
package auth

import "crypto/subtle"

// Gate answers whether a request is allowed to trigger a run.
type Gate struct {
	secret  string
	enforce bool
}

// NewGate creates a Gate. enforce should be true only for production
// deployments; secret is the shared cron secret.
func NewGate(secret string, enforce bool) *Gate {
	return &Gate{secret: secret, enforce: enforce}
}

// Authorized reports whether the given Authorization header value is
// acceptable. A missing or empty configured secret denies everything
// when enforcement is on.
func (g *Gate) Authorized(header string) bool {
	if !g.enforce {
		return true
	}
	if g.secret == "" {
		return false
	}
	want := "Bearer " + g.secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(want)) == 1
}
