// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"strongbox/config"
	deliverycontext "strongbox/internal/delivery/context"
	"strongbox/internal/domain/entity"
	domainerrors "strongbox/internal/domain/errors"
	"strongbox/internal/domain/repository"
	"strongbox/internal/domain/service"
	"strongbox/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		tokenTTL:     params.Config.TokenTTL(),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new account with a hashed password.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email), slog.Any("role", role))

	// Pre-read for a friendlier error. The unique index on email remains
	// the authoritative check: a concurrent signup racing past this read
	// still fails on Create with the same domain error.
	if _, err := srv.userRepo.FindByEmail(ctx, input.Email); err == nil {
		srv.log(ctx).Warn("Signup rejected, email taken", slog.String("email", input.Email))

		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing account")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		srv.log(ctx).Error("Failed to create user during signup", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user during signup")
	}

	srv.log(ctx).Debug("Signup completed", slog.Int64("userID", newUser.ID))

	return &usecase.SignupOutput{User: newUser}, nil
}

// Login verifies credentials and issues a signed token. A missing account
// and a wrong password produce the same error so callers cannot probe
// which emails are registered.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokenService.Generate(user.ID, user.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to generate token", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenGenerationFailed, err.Error())
	}

	// The session ledger is advisory. Token validity is decided by the
	// signature and expiry alone, so a failed insert must not fail the login.
	session := &entity.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(srv.tokenTTL),
	}
	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		srv.log(ctx).Warn("Failed to record session", slog.Int64("userID", user.ID), slog.Any("error", err))
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{Token: token, User: user}, nil
}

// Validate checks the token and re-reads the user from the store. The role
// carried inside the token is never trusted on its own: a role change after
// issuance invalidates the token on its next use.
func (srv *authService) Validate(ctx context.Context, token string) (*usecase.Principal, error) {
	claims, err := srv.tokenService.Validate(token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "malformed subject claim")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// The account was deleted after the token was issued.
			return nil, errors.Wrap(domainerrors.ErrInvalidToken, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load account for token validation")
	}

	if user.Role != claims.Role {
		srv.log(ctx).Warn("Token role no longer matches account",
			slog.Int64("userID", user.ID),
			slog.Any("tokenRole", claims.Role),
			slog.Any("currentRole", user.Role))

		return nil, errors.Wrap(domainerrors.ErrRoleChanged, "role changed since token issuance")
	}

	return &usecase.Principal{UserID: user.ID, Role: user.Role, Token: token}, nil
}

// Logout removes the session record for the given token. Logging out with
// a token that has no session record succeeds silently.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if err := srv.sessionRepo.DeleteByToken(ctx, input.Token); err != nil {
		srv.log(ctx).Error("Failed to delete session", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete session")
	}

	return nil
}

// ChangeRole reassigns an account's role. Outstanding tokens still carry
// the old role, so Validate rejects them once the change lands.
func (srv *authService) ChangeRole(ctx context.Context, userID int64, role entity.Role) error {
	if !role.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("account not found")
		}

		return errors.Wrap(err, "failed to load account for role change")
	}

	if user.Role == role {
		return nil
	}

	previous := user.Role
	user.Role = role
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to change account role", slog.Int64("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to change account role")
	}

	srv.log(ctx).Info("Account role changed",
		slog.Int64("userID", userID),
		slog.Any("from", previous),
		slog.Any("to", role))

	return nil
}

// CleanupExpiredSessions sweeps expired rows out of the session ledger.
func (srv *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := srv.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		srv.log(ctx).Error("Failed to clean up expired sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to clean up expired sessions")
	}

	if deleted > 0 {
		srv.log(ctx).Info("Removed expired sessions", slog.Int64("count", deleted))
	}

	return deleted, nil
}
