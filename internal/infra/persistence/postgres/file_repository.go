// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"strongbox/internal/domain/entity"
	domainerrors "strongbox/internal/domain/errors"
	"strongbox/internal/domain/repository"
	"strongbox/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// fileRepository implements the domain.FileRepository interface using GORM.
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository is the constructor for fileRepository.
func NewFileRepository(db *gorm.DB) repository.FileRepository {
	return &fileRepository{db: db}
}

// Create persists a new file metadata record.
func (repo *fileRepository) Create(ctx context.Context, file *entity.File) error {
	fileM := fromFileDomain(file)

	if err := repo.db.WithContext(ctx).Create(fileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "file id already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid owner reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create file record")
	}

	file.CreatedAt = fileM.CreatedAt

	return nil
}

// FindByID retrieves a single file record by its generated ID.
func (repo *fileRepository) FindByID(ctx context.Context, id string) (*entity.File, error) {
	var fileM model.FileModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&fileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to find file by id")
	}

	return toFileDomain(&fileM), nil
}

// FindByOwner retrieves all file records belonging to a user, newest first.
func (repo *fileRepository) FindByOwner(ctx context.Context, userID int64) ([]*entity.File, error) {
	var fileModels []model.FileModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&fileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list files by owner")
	}

	files := make([]*entity.File, 0, len(fileModels))
	for i := range fileModels {
		files = append(files, toFileDomain(&fileModels[i]))
	}

	return files, nil
}

// Delete removes a file record by its ID.
func (repo *fileRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.FileModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete file record")
	}

	// If no rows were affected, the record was already gone.
	if result.RowsAffected == 0 {
		return repository.ErrFileNotFound
	}

	return nil
}

// StatsByOwner aggregates file count and total size for a user.
func (repo *fileRepository) StatsByOwner(ctx context.Context, userID int64) (*entity.StorageStats, error) {
	var stats entity.StorageStats
	if err := repo.db.WithContext(ctx).
		Model(&model.FileModel{}).
		Select("COUNT(*) AS file_count, COALESCE(SUM(size), 0) AS total_size").
		Where("user_id = ?", userID).
		Scan(&stats).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate storage stats")
	}

	return &stats, nil
}

// --- Mapper Functions ---

// toFileDomain converts a GORM FileModel to a domain File entity.
func toFileDomain(data *model.FileModel) *entity.File {
	if data == nil {
		return nil
	}

	return &entity.File{
		ID:           data.ID,
		UserID:       data.UserID,
		OriginalName: data.OriginalName,
		StoredName:   data.StoredName,
		Size:         data.Size,
		MimeType:     data.MimeType,
		StoragePath:  data.StoragePath,
		CreatedAt:    data.CreatedAt,
	}
}

// fromFileDomain converts a domain File entity to a GORM FileModel.
func fromFileDomain(data *entity.File) *model.FileModel {
	if data == nil {
		return nil
	}

	return &model.FileModel{
		ID:           data.ID,
		UserID:       data.UserID,
		OriginalName: data.OriginalName,
		StoredName:   data.StoredName,
		Size:         data.Size,
		MimeType:     data.MimeType,
		StoragePath:  data.StoragePath,
	}
}
