// Package blob provides the filesystem-backed implementation of the domain BlobStore.
package blob

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"strongbox/config"
	"strongbox/internal/domain/service"
)

// fileBlobStore persists raw bytes under a base directory, one file per
// stored object, through a gocloud.dev fileblob bucket. Writes go to a
// temp file and are renamed into place, so a key never exposes a partial
// payload.
type fileBlobStore struct {
	bucket   *blob.Bucket
	basePath string
}

// Params defines the dependencies for the blob store.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens (creating if necessary) the configured base directory as a
// fileblob bucket and returns it as a service.BlobStore.
func New(params Params) (service.BlobStore, error) {
	if params.Config.Storage == nil || params.Config.Storage.BasePath == "" {
		return nil, errors.New("storage base path must be provided")
	}
	basePath := params.Config.Storage.BasePath

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create storage base path")
	}

	// MetadataDontWrite keeps the directory to exactly one file per object,
	// no sidecar attribute files.
	bucket, err := fileblob.OpenBucket(basePath, &fileblob.Options{
		Metadata: fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file blob bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &fileBlobStore{bucket: bucket, basePath: basePath}, nil
}

// Store durably writes data under the given key.
func (s *fileBlobStore) Store(ctx context.Context, key string, data []byte) error {
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errors.Wrapf(err, "failed to write blob %s", key)
	}

	return nil
}

// Retrieve reads the full payload stored under the key.
func (s *fileBlobStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrBlobNotFound
		}

		return nil, errors.Wrapf(err, "failed to read blob %s", key)
	}

	return data, nil
}

// Delete removes the blob stored under the key.
func (s *fileBlobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return service.ErrBlobNotFound
		}

		return errors.Wrapf(err, "failed to delete blob %s", key)
	}

	return nil
}

// BasePath reports the base directory backing the store.
func (s *fileBlobStore) BasePath() string {
	return s.basePath
}
