package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/models"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormObjectRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormObjectRepository creates a new GORM-based ObjectRepository implementation
func NewGormObjectRepository(db *gorm.DB, logger logger.Logger) (objects.ObjectRepository, error) {
	return &gormObjectRepository{
		db:     db,
		logger: logger,
	}, nil
}

func preloadObject(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Metadata", func(db *gorm.DB) *gorm.DB { return db.Order("property, value") }).
		Preload(prefix+"Accesses", func(db *gorm.DB) *gorm.DB { return db.Order("access_time") })
}

func (r *gormObjectRepository) Create(ctx context.Context, object *objects.StorageObject) error {
	if err := object.Validate(); err != nil {
		return err
	}

	model := &models.StorageObjectModel{}
	model.FromDomain(object)

	// metadata rows are resolved beforehand, only the join rows are written
	if err := r.db.WithContext(ctx).Omit("Metadata.*").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create storage object: %w", err)
	}

	r.logger.Debug("created storage object", "id", object.ID, "group", object.GroupID)
	return nil
}

func (r *gormObjectRepository) GetByID(ctx context.Context, id string) (*objects.StorageObject, error) {
	var model models.StorageObjectModel
	if err := preloadObject(r.db.WithContext(ctx), "").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w (%s)", objects.ErrObjectNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch storage object: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormObjectRepository) List(ctx context.Context, groupID string) ([]*objects.StorageObject, error) {
	query := preloadObject(r.db.WithContext(ctx), "").Order("creation_time, id")
	if groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	var modelList []*models.StorageObjectModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch storage objects: %w", err)
	}

	domainList := make([]*objects.StorageObject, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormObjectRepository) Update(ctx context.Context, object *objects.StorageObject) error {
	if err := object.Validate(); err != nil {
		return err
	}

	model := &models.StorageObjectModel{}
	model.FromDomain(object)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StorageObjectModel{ID: object.ID}).
			Select("Name", "GroupID", "Encrypted", "Digest", "ContentType", "ContentLength").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		return replaceMetadata(tx, &models.StorageObjectModel{ID: object.ID}, model.Metadata)
	})
	if err != nil {
		return fmt.Errorf("failed to update storage object: %w", err)
	}

	r.logger.Debug("updated storage object", "id", object.ID)
	return nil
}

func (r *gormObjectRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Select("Metadata", "Accesses").
		Delete(&models.StorageObjectModel{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete storage object: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w (%s)", objects.ErrObjectNotFound, id)
	}

	r.logger.Debug("deleted storage object", "id", id)
	return nil
}

func (r *gormObjectRepository) RecordAccess(ctx context.Context, access *objects.StorageObjectAccess) error {
	model := &models.StorageObjectAccessModel{}
	model.FromDomain(access)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record access of %s: %w", access.ObjectID, err)
	}
	return nil
}

// replaceMetadata makes metadata the exact set of properties linked to owner.
func replaceMetadata(tx *gorm.DB, owner interface{}, metadata []models.MetadataPropertyModel) error {
	association := tx.Model(owner).Association("Metadata")
	if len(metadata) == 0 {
		return association.Clear()
	}
	return association.Replace(metadata)
}
