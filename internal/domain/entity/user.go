// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core identity in the system. The ID is assigned by the
// durable store at creation time and never changes afterwards; the Role
// may be changed out-of-band (e.g. an administrative promotion), which is
// why token validation always re-reads it instead of trusting the snapshot
// embedded in a token.
type User struct {
	ID           int64     // Store-assigned identifier, immutable once set.
	Email        string    // Unique login identifier, enforced by the store.
	PasswordHash string    // Argon2id hash of the credential. Never the plaintext.
	Role         Role      // Current role; authoritative over any token snapshot.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}
