package storage

import (
	"context"
	"fmt"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

// NewObjectStore creates the ObjectStore selected by settings.Backend.
func NewObjectStore(ctx context.Context, settings *config.StorageSettings, logger logger.Logger) (objects.ObjectStore, error) {
	switch settings.Backend {
	case config.FilesystemStorageBackend:
		return NewFilesystemStore(settings.Root, logger)
	case config.AzureStorageBackend:
		return NewAzureBlobStore(ctx, settings, logger)
	case config.AwsStorageBackend:
		return NewS3Store(ctx, settings, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", settings.Backend)
	}
}
