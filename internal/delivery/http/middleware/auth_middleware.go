package middleware

import (
	"strings"

	deliverycontext "strongbox/internal/delivery/context"
	"strongbox/internal/delivery/http/response"
	"strongbox/internal/domain/entity"
	"strongbox/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for token authentication and authorization.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the bearer token and attaches the resulting
// principal to the request. Validation goes through the usecase rather
// than the token service directly so every request re-checks the account
// and its current role.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		principal, err := m.authUsecase.Validate(c.Request().Context(), tokenString)
		if err != nil {
			return err
		}

		c.Set(deliverycontext.KeyPrincipal, principal)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the principal has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: principal missing")
			}

			if principal.Role != requiredRole {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetPrincipal extracts the authenticated principal set by Authenticate.
func GetPrincipal(c echo.Context) (*usecase.Principal, bool) {
	principal, ok := c.Get(deliverycontext.KeyPrincipal).(*usecase.Principal)

	return principal, ok
}
