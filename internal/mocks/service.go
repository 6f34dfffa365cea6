package mocks

import (
	"context"

	"strongbox/internal/domain/entity"
	"strongbox/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// PasswordHasher mocks service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// TokenService mocks service.TokenService.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) Generate(userID int64, role entity.Role) (string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.Error(1)
}

func (m *TokenService) Validate(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

// BlobStore mocks service.BlobStore.
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Store(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)

	return args.Error(0)
}

func (m *BlobStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *BlobStore) BasePath() string {
	args := m.Called()

	return args.String(0)
}
