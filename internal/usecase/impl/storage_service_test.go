package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"strongbox/internal/domain/entity"
	domainerrors "strongbox/internal/domain/errors"
	"strongbox/internal/domain/repository"
	"strongbox/internal/domain/service"
	"strongbox/internal/mocks"
	"strongbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// storageServiceFixtures holds all test dependencies for storage service tests.
type storageServiceFixtures struct {
	service   usecase.StorageUsecase
	fileRepo  *mocks.FileRepository
	blobStore *mocks.BlobStore
}

func createTestStorageService(t *testing.T) storageServiceFixtures {
	t.Helper()

	fileRepo := &mocks.FileRepository{}
	blobStore := &mocks.BlobStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewStorageService(StorageServiceParams{
		FileRepo:  fileRepo,
		BlobStore: blobStore,
		Logger:    logger,
	})

	return storageServiceFixtures{
		service:   service,
		fileRepo:  fileRepo,
		blobStore: blobStore,
	}
}

func TestStorageService_Store_Success(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.AnythingOfType("string"), []byte("content")).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.AnythingOfType("*entity.File")).Return(nil)

	output, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "report.pdf",
		MimeType:     "application/pdf",
		Data:         []byte("content"),
	})

	require.NoError(t, err)
	file := output.File
	assert.Equal(t, int64(5), file.UserID)
	assert.Equal(t, "report.pdf", file.OriginalName)
	assert.Equal(t, int64(7), file.Size)
	assert.Equal(t, "application/pdf", file.MimeType)

	// The generated ID is a UUID and the stored name keeps the extension.
	_, err = uuid.Parse(file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID+".pdf", file.StoredName)
	assert.Equal(t, "/data/blobs/"+file.StoredName, file.StoragePath)

	// The blob key and the metadata stored name must agree.
	storedKey := fx.blobStore.Calls[0].Arguments.String(1)
	assert.Equal(t, file.StoredName, storedKey)
}

func TestStorageService_Store_NoExtension(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.Anything).Return(nil)

	output, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "README",
		Data:         []byte("x"),
	})

	require.NoError(t, err)
	assert.Equal(t, output.File.ID, output.File.StoredName)
}

func TestStorageService_Store_EmptyPayload(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.AnythingOfType("string"), []byte{}).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.Anything).Return(nil)

	output, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "empty.txt",
		Data:         []byte{},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), output.File.Size)
	fx.blobStore.AssertExpectations(t)
}

func TestStorageService_Store_ConcurrentDistinctNames(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.Anything).Return(nil)

	const writers = 16
	var wg sync.WaitGroup
	names := make(chan string, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			output, err := fx.service.Store(ctx, &usecase.StoreFileInput{
				OwnerID:      5,
				OriginalName: "chunk.bin",
				Data:         []byte{byte(i)},
			})
			if err == nil {
				names <- output.File.StoredName
			}
		}(i)
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool, writers)
	for name := range names {
		require.False(t, seen[name], "stored name %q generated twice", name)
		seen[name] = true
	}
	assert.Len(t, seen, writers)
}

func TestStorageService_Store_EmptyName(t *testing.T) {
	fx := createTestStorageService(t)

	_, err := fx.service.Store(context.Background(), &usecase.StoreFileInput{
		OwnerID: 5,
		Data:    []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	fx.blobStore.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageService_Store_BlobWriteFails(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "report.pdf",
		Data:         []byte("content"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrBlobWriteFailed))
	// No metadata row may exist without its blob.
	fx.fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStorageService_Store_MetadataFailureCompensatesBlob(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
	fx.blobStore.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)

	_, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "report.pdf",
		Data:         []byte("content"),
	})

	require.Error(t, err)

	// The compensating delete targets the same key that was written.
	var storedKey, deletedKey string
	for _, call := range fx.blobStore.Calls {
		switch call.Method {
		case "Store":
			storedKey = call.Arguments.String(1)
		case "Delete":
			deletedKey = call.Arguments.String(1)
		}
	}
	assert.NotEmpty(t, storedKey)
	assert.Equal(t, storedKey, deletedKey)
}

func TestStorageService_Store_CompensationFailureStillReturnsError(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.blobStore.On("Store", ctx, mock.Anything, mock.Anything).Return(nil)
	fx.blobStore.On("BasePath").Return("/data/blobs")
	fx.fileRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
	fx.blobStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete failed"))

	_, err := fx.service.Store(ctx, &usecase.StoreFileInput{
		OwnerID:      5,
		OriginalName: "report.pdf",
		Data:         []byte("content"),
	})

	require.Error(t, err)
}

func TestStorageService_Retrieve_Success(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 5, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)
	fx.blobStore.On("Retrieve", ctx, "abc.pdf").Return([]byte("content"), nil)

	output, err := fx.service.Retrieve(ctx, 5, "abc")

	require.NoError(t, err)
	assert.Equal(t, file, output.File)
	assert.Equal(t, []byte("content"), output.Data)
}

func TestStorageService_Retrieve_NotFound(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	fx.fileRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrFileNotFound)

	_, err := fx.service.Retrieve(ctx, 5, "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrFileNotFound))
}

func TestStorageService_Retrieve_OtherOwner(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 8, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)

	_, err := fx.service.Retrieve(ctx, 5, "abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrFileAccessDenied))
	fx.blobStore.AssertNotCalled(t, "Retrieve", mock.Anything, mock.Anything)
}

func TestStorageService_Retrieve_MissingBlob(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 5, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)
	fx.blobStore.On("Retrieve", ctx, "abc.pdf").Return(nil, service.ErrBlobNotFound)

	_, err := fx.service.Retrieve(ctx, 5, "abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrBlobReadFailed))
}

func TestStorageService_Delete_Success(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 5, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)
	fx.fileRepo.On("Delete", ctx, "abc").Return(nil)
	fx.blobStore.On("Delete", ctx, "abc.pdf").Return(nil)

	err := fx.service.Delete(ctx, 5, "abc")

	require.NoError(t, err)
	fx.fileRepo.AssertExpectations(t)
	fx.blobStore.AssertExpectations(t)
}

func TestStorageService_Delete_BlobFailureIsSwallowed(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 5, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)
	fx.fileRepo.On("Delete", ctx, "abc").Return(nil)
	fx.blobStore.On("Delete", ctx, "abc.pdf").Return(errors.New("fs error"))

	// The metadata row is gone, so the object is deleted from the
	// caller's point of view even though the blob lingers.
	err := fx.service.Delete(ctx, 5, "abc")

	require.NoError(t, err)
}

func TestStorageService_Delete_OtherOwner(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	file := &entity.File{ID: "abc", UserID: 8, StoredName: "abc.pdf"}
	fx.fileRepo.On("FindByID", ctx, "abc").Return(file, nil)

	err := fx.service.Delete(ctx, 5, "abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrFileAccessDenied))
	fx.fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStorageService_List(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	files := []*entity.File{{ID: "b"}, {ID: "a"}}
	fx.fileRepo.On("FindByOwner", ctx, int64(5)).Return(files, nil)

	result, err := fx.service.List(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, files, result)
}

func TestStorageService_Stats(t *testing.T) {
	fx := createTestStorageService(t)
	ctx := context.Background()

	stats := &entity.StorageStats{FileCount: 3, TotalSize: 1024}
	fx.fileRepo.On("StatsByOwner", ctx, int64(5)).Return(stats, nil)

	result, err := fx.service.Stats(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, stats, result)
}
