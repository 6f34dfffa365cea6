package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"strongbox/internal/domain/entity"
	"strongbox/internal/mocks"
	"strongbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthTestContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "")

	err := m.Authenticate(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	authUsecase.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "Basic dXNlcjpwYXNz")

	err := m.Authenticate(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	authUsecase.On("Validate", mock.Anything, "bad-token").Return(nil, errors.New("invalid token"))
	m := NewAuthMiddleware(authUsecase)
	c, _ := newAuthTestContext(t, "Bearer bad-token")

	err := m.Authenticate(okHandler)(c)

	require.Error(t, err)
}

func TestAuthenticate_SetsPrincipal(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	principal := &usecase.Principal{UserID: 7, Role: entity.RoleUser, Token: "good-token"}
	authUsecase.On("Validate", mock.Anything, "good-token").Return(principal, nil)
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "Bearer good-token")

	var seen *usecase.Principal
	err := m.Authenticate(func(c echo.Context) error {
		seen, _ = GetPrincipal(c)

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, principal, seen)
}

func TestRequireRole_Matches(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "")
	c.Set("principal", &usecase.Principal{UserID: 7, Role: entity.RoleService})

	err := m.RequireRole(entity.RoleService)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "")
	c.Set("principal", &usecase.Principal{UserID: 7, Role: entity.RoleUser})

	err := m.RequireRole(entity.RoleService)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	m := NewAuthMiddleware(authUsecase)
	c, rec := newAuthTestContext(t, "")

	err := m.RequireRole(entity.RoleService)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
