package auth

import "time"

// RevokedToken invalidates the token carrying its jti for as long as the
// token could still be alive. Records past ExpiresAt are prunable.
type RevokedToken struct {
	ID        int       `db:"id"`
	JTI       string    `db:"jti"`
	RevokedAt time.Time `db:"revoked_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
