package app

import (
	"context"
	"fmt"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

type metadataService struct {
	metadataRepository objects.MetadataRepository
	logger             logger.Logger
}

// NewMetadataService creates a new instance of MetadataService
func NewMetadataService(metadataRepository objects.MetadataRepository, logger logger.Logger) (objects.MetadataService, error) {
	return &metadataService{
		metadataRepository: metadataRepository,
		logger:             logger,
	}, nil
}

func (s *metadataService) Check(metadata []objects.MetadataProperty) error {
	return objects.CheckMetadata(metadata)
}

func (s *metadataService) Resolve(ctx context.Context, metadata []objects.MetadataProperty) ([]objects.MetadataProperty, error) {
	if err := s.Check(metadata); err != nil {
		return nil, err
	}

	resolved := make([]objects.MetadataProperty, 0, len(metadata))
	for _, m := range metadata {
		property, err := s.metadataRepository.FindOrCreate(ctx, m.Property, m.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve metadata: %w", err)
		}
		resolved = append(resolved, *property)
	}
	return resolved, nil
}
