package mocks

import (
	"context"

	"strongbox/internal/domain/entity"
	"strongbox/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// AuthUsecase mocks usecase.AuthUsecase.
type AuthUsecase struct {
	mock.Mock
}

func (m *AuthUsecase) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.SignupOutput), args.Error(1)
}

func (m *AuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *AuthUsecase) Validate(ctx context.Context, token string) (*usecase.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.Principal), args.Error(1)
}

func (m *AuthUsecase) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	args := m.Called(ctx, input)

	return args.Error(0)
}

func (m *AuthUsecase) ChangeRole(ctx context.Context, userID int64, role entity.Role) error {
	args := m.Called(ctx, userID, role)

	return args.Error(0)
}

func (m *AuthUsecase) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

// StorageUsecase mocks usecase.StorageUsecase.
type StorageUsecase struct {
	mock.Mock
}

func (m *StorageUsecase) Store(ctx context.Context, input *usecase.StoreFileInput) (*usecase.StoreFileOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.StoreFileOutput), args.Error(1)
}

func (m *StorageUsecase) Retrieve(ctx context.Context, ownerID int64, fileID string) (*usecase.RetrieveFileOutput, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RetrieveFileOutput), args.Error(1)
}

func (m *StorageUsecase) Delete(ctx context.Context, ownerID int64, fileID string) error {
	args := m.Called(ctx, ownerID, fileID)

	return args.Error(0)
}

func (m *StorageUsecase) List(ctx context.Context, ownerID int64) ([]*entity.File, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.File), args.Error(1)
}

func (m *StorageUsecase) Stats(ctx context.Context, ownerID int64) (*entity.StorageStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.StorageStats), args.Error(1)
}
