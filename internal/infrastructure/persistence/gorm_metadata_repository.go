package persistence

import (
	"context"
	"fmt"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/models"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormMetadataRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormMetadataRepository creates a new GORM-based MetadataRepository implementation
func NewGormMetadataRepository(db *gorm.DB, logger logger.Logger) (objects.MetadataRepository, error) {
	return &gormMetadataRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormMetadataRepository) FindOrCreate(ctx context.Context, property, value string) (*objects.MetadataProperty, error) {
	query := models.MetadataPropertyModel{Property: property, Value: value}

	var model models.MetadataPropertyModel
	err := r.db.WithContext(ctx).Where(&query).FirstOrCreate(&model).Error
	if err != nil {
		// a concurrent request may have inserted the same pair
		model = models.MetadataPropertyModel{}
		if retryErr := r.db.WithContext(ctx).Where(&query).First(&model).Error; retryErr != nil {
			return nil, fmt.Errorf("failed to resolve metadata property %s: %w", property, err)
		}
	}

	result := model.ToDomain()
	return &result, nil
}
