// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"strongbox/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Email    string
	Password string
	Role     entity.Role
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// LogoutInput carries the token whose session record should be removed.
type LogoutInput struct {
	Token string
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
type SignupOutput struct {
	User *entity.User
}

// LoginOutput returns the signed token after a successful login.
type LoginOutput struct {
	Token string
	User  *entity.User
}

// Principal is the authenticated identity attached to a request after
// token validation. Role reflects the user's current role in the store,
// not the role embedded in the token.
type Principal struct {
	UserID int64
	Role   entity.Role
	Token  string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	// Validate checks the token's signature and expiry, then re-reads the
	// user so that role changes take effect on the next request.
	Validate(ctx context.Context, token string) (*Principal, error)
	Logout(ctx context.Context, input *LogoutInput) error
	// ChangeRole reassigns an account's role. Tokens issued before the
	// change keep the old role and stop validating on their next use.
	ChangeRole(ctx context.Context, userID int64, role entity.Role) error
	// CleanupExpiredSessions removes expired session records and reports
	// how many were deleted.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
