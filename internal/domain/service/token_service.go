package service

import (
	"github.com/golang-jwt/jwt/v5"

	"strongbox/internal/domain/entity"
)

// Claims defines the signed payload inside a token: the subject (user id),
// a snapshot of the role at issuance, and the standard iat/exp pair.
// The role snapshot is advisory only; validation re-reads the live role.
type Claims struct {
	Role entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for minting and verifying signed tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Generate mints a signed, time-bounded token embedding the user's id
	// and current role.
	Generate(userID int64, role entity.Role) (string, error)

	// Validate checks the signature and expiry of a token string and
	// returns its claims. It does not consult any store.
	Validate(tokenString string) (*Claims, error)
}
