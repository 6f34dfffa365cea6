package entity

import "time"

// Session is an advisory audit record of an issued token. It is written
// best-effort on login and never consulted during validation: the signed
// token is self-describing and remains valid even if this row was lost.
type Session struct {
	ID        int64     // Store-assigned identifier.
	UserID    int64     // Owner of the session.
	Token     string    // The issued token, verbatim, for audit and logout.
	ExpiresAt time.Time // Mirror of the token's expiry, used by the sweeper.
	CreatedAt time.Time
}

// IsExpired reports whether the session's recorded expiry has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
