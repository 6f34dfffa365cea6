package impl

import (
	"context"
	"log/slog"
	"path/filepath"

	deliverycontext "strongbox/internal/delivery/context"
	"strongbox/internal/domain/entity"
	domainerrors "strongbox/internal/domain/errors"
	"strongbox/internal/domain/repository"
	"strongbox/internal/domain/service"
	"strongbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// storageService implements the StorageUsecase interface. Writes follow a
// fixed order: blob first, metadata second, with a compensating blob delete
// when the metadata insert fails. There is no transaction spanning the two
// resources, so a crash between steps can leave an orphan blob. An orphan
// blob is invisible and harmless; a metadata row without a blob would not be.
type storageService struct {
	fileRepo  repository.FileRepository
	blobStore service.BlobStore
	logger    *slog.Logger
}

// StorageServiceParams holds dependencies for storageService, injected by Fx.
type StorageServiceParams struct {
	fx.In

	FileRepo  repository.FileRepository
	BlobStore service.BlobStore
	Logger    *slog.Logger
}

// NewStorageService is the constructor for storageService.
func NewStorageService(params StorageServiceParams) usecase.StorageUsecase {
	return &storageService{
		fileRepo:  params.FileRepo,
		blobStore: params.BlobStore,
		logger:    params.Logger,
	}
}

func (srv *storageService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Store writes the object's content to the blob store and then records its
// metadata. The stored name is derived from the generated ID so collisions
// between uploads with the same original name are impossible.
func (srv *storageService) Store(ctx context.Context, input *usecase.StoreFileInput) (*usecase.StoreFileOutput, error) {
	if input.OriginalName == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("file name is required")
	}

	fileID := uuid.NewString()
	storedName := fileID + filepath.Ext(input.OriginalName)

	srv.log(ctx).Debug("Storing object",
		slog.String("fileID", fileID),
		slog.Int64("ownerID", input.OwnerID),
		slog.Int("size", len(input.Data)))

	if err := srv.blobStore.Store(ctx, storedName, input.Data); err != nil {
		srv.log(ctx).Error("Failed to write blob", slog.String("fileID", fileID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrBlobWriteFailed, err.Error())
	}

	file := &entity.File{
		ID:           fileID,
		UserID:       input.OwnerID,
		OriginalName: input.OriginalName,
		StoredName:   storedName,
		Size:         int64(len(input.Data)),
		MimeType:     input.MimeType,
		StoragePath:  filepath.Join(srv.blobStore.BasePath(), storedName),
	}

	if err := srv.fileRepo.Create(ctx, file); err != nil {
		srv.log(ctx).Error("Failed to record file metadata", slog.String("fileID", fileID), slog.Any("error", err))

		// Compensate by removing the blob written above. If this also
		// fails the blob is orphaned, which only wastes space.
		if delErr := srv.blobStore.Delete(ctx, storedName); delErr != nil {
			srv.log(ctx).Warn("Failed to remove blob after metadata failure, blob orphaned",
				slog.String("storedName", storedName),
				slog.Any("error", delErr))
		}

		return nil, errors.Wrap(err, "failed to record file metadata")
	}

	srv.log(ctx).Info("Object stored", slog.String("fileID", fileID), slog.Int64("ownerID", input.OwnerID))

	return &usecase.StoreFileOutput{File: file}, nil
}

// Retrieve loads an object's metadata, checks ownership, and reads the blob.
func (srv *storageService) Retrieve(ctx context.Context, ownerID int64, fileID string) (*usecase.RetrieveFileOutput, error) {
	file, err := srv.loadOwnedFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	data, err := srv.blobStore.Retrieve(ctx, file.StoredName)
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			// Metadata without a blob means the write protocol was
			// violated somewhere. Surface it loudly.
			srv.log(ctx).Error("Metadata row has no backing blob",
				slog.String("fileID", fileID),
				slog.String("storedName", file.StoredName))

			return nil, domainerrors.ErrBlobReadFailed.WrapMessage("object content is missing")
		}

		srv.log(ctx).Error("Failed to read blob", slog.String("fileID", fileID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrBlobReadFailed, err.Error())
	}

	return &usecase.RetrieveFileOutput{File: file, Data: data}, nil
}

// Delete removes the metadata row first and the blob second. Once the row
// is gone the object is unreachable, so a failed blob delete only leaves
// an orphan and must not fail the operation.
func (srv *storageService) Delete(ctx context.Context, ownerID int64, fileID string) error {
	file, err := srv.loadOwnedFile(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := srv.fileRepo.Delete(ctx, fileID); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			// A concurrent delete won the race.
			return domainerrors.ErrFileNotFound.WrapMessage("file not found")
		}

		srv.log(ctx).Error("Failed to delete file metadata", slog.String("fileID", fileID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete file metadata")
	}

	if err := srv.blobStore.Delete(ctx, file.StoredName); err != nil {
		srv.log(ctx).Warn("Failed to delete blob after metadata removal, blob orphaned",
			slog.String("storedName", file.StoredName),
			slog.Any("error", err))
	}

	srv.log(ctx).Info("Object deleted", slog.String("fileID", fileID), slog.Int64("ownerID", ownerID))

	return nil
}

// List returns the owner's file records, newest first.
func (srv *storageService) List(ctx context.Context, ownerID int64) ([]*entity.File, error) {
	files, err := srv.fileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		srv.log(ctx).Error("Failed to list files", slog.Int64("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list files")
	}

	return files, nil
}

// Stats aggregates the owner's file count and total stored bytes.
func (srv *storageService) Stats(ctx context.Context, ownerID int64) (*entity.StorageStats, error) {
	stats, err := srv.fileRepo.StatsByOwner(ctx, ownerID)
	if err != nil {
		srv.log(ctx).Error("Failed to aggregate storage stats", slog.Int64("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to aggregate storage stats")
	}

	return stats, nil
}

// loadOwnedFile fetches a file record and verifies the caller owns it.
func (srv *storageService) loadOwnedFile(ctx context.Context, ownerID int64, fileID string) (*entity.File, error) {
	file, err := srv.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, domainerrors.ErrFileNotFound.WrapMessage("file not found")
		}

		return nil, errors.Wrap(err, "failed to load file metadata")
	}

	if file.UserID != ownerID {
		srv.log(ctx).Warn("Rejected access to another user's object",
			slog.String("fileID", fileID),
			slog.Int64("ownerID", file.UserID),
			slog.Int64("callerID", ownerID))

		return nil, domainerrors.ErrFileAccessDenied.WrapMessage("file belongs to another user")
	}

	return file, nil
}
