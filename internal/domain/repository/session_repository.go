package repository

import (
	"context"
	"time"

	"strongbox/internal/domain/entity"
)

// SessionRepository defines the operations for the advisory session ledger.
// Writes are best-effort from the caller's point of view: a failed insert
// must never fail the login that triggered it.
type SessionRepository interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *entity.Session) error

	// DeleteByToken removes the session matching the given token value.
	// Deleting a token that has no session row is not an error.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes all sessions that expired before the given
	// instant and returns how many rows were deleted.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
