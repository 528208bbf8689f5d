package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

type azureBlobStore struct {
	client        *azblob.Client
	containerName string
	logger        logger.Logger
}

// NewAzureBlobStore creates an ObjectStore keeping each object in a block blob named by its ID.
// The container is created when missing.
func NewAzureBlobStore(ctx context.Context, settings *config.StorageSettings, logger logger.Logger) (objects.ObjectStore, error) {
	client, err := azblob.NewClientFromConnectionString(settings.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	_, err = client.CreateContainer(ctx, settings.ContainerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", settings.ContainerName, err)
	}

	logger.Info("using Azure blob storage", "container", settings.ContainerName)
	return &azureBlobStore{
		client:        client,
		containerName: settings.ContainerName,
		logger:        logger,
	}, nil
}

func (s *azureBlobStore) Create(ctx context.Context, id string) (objects.ContentWriter, error) {
	return newPipeWriter(ctx, func(ctx context.Context, r io.Reader) error {
		if _, err := s.client.UploadStream(ctx, s.containerName, id, r, nil); err != nil {
			return fmt.Errorf("failed to upload blob %s: %w", id, err)
		}
		return nil
	}), nil
}

func (s *azureBlobStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", id, err)
	}
	return resp.Body, nil
}

func (s *azureBlobStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, id, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}

	s.logger.Debug("deleted blob", "id", id, "container", s.containerName)
	return nil
}
