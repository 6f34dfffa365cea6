package usecase

import (
	"context"

	"strongbox/internal/domain/entity"
)

// --- Input DTOs ---

// StoreFileInput defines the data required to store a new object.
type StoreFileInput struct {
	OwnerID      int64
	OriginalName string
	MimeType     string
	Data         []byte
}

// --- Output DTOs ---

// StoreFileOutput returns the metadata record of the stored object.
type StoreFileOutput struct {
	File *entity.File
}

// RetrieveFileOutput returns an object's content together with its metadata.
type RetrieveFileOutput struct {
	File *entity.File
	Data []byte
}

// StorageUsecase defines the interface for object storage business operations.
// Every operation is scoped to the owner: callers can only see and touch
// their own objects.
type StorageUsecase interface {
	Store(ctx context.Context, input *StoreFileInput) (*StoreFileOutput, error)
	Retrieve(ctx context.Context, ownerID int64, fileID string) (*RetrieveFileOutput, error)
	Delete(ctx context.Context, ownerID int64, fileID string) error
	List(ctx context.Context, ownerID int64) ([]*entity.File, error)
	Stats(ctx context.Context, ownerID int64) (*entity.StorageStats, error)
}
