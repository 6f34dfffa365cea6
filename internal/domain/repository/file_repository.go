package repository

import (
	"context"
	"errors"

	"strongbox/internal/domain/entity"
)

// ErrFileNotFound is a domain-specific error returned when a file record is not found.
var ErrFileNotFound = errors.New("file not found")

// FileRepository defines the operations for file metadata persistence.
// Every record pairs with exactly one blob on disk; the pairing protocol
// lives in the storage usecase, not here.
type FileRepository interface {
	// Create persists a new file metadata record.
	Create(ctx context.Context, file *entity.File) error

	// FindByID retrieves a single file record by its generated ID.
	FindByID(ctx context.Context, id string) (*entity.File, error)

	// FindByOwner retrieves all file records belonging to a user,
	// newest first.
	FindByOwner(ctx context.Context, userID int64) ([]*entity.File, error)

	// Delete removes a file record by its ID.
	Delete(ctx context.Context, id string) error

	// StatsByOwner aggregates file count and total size for a user.
	StatsByOwner(ctx context.Context, userID int64) (*entity.StorageStats, error)
}
