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

type gormGroupRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormGroupRepository creates a new GORM-based GroupRepository implementation
func NewGormGroupRepository(db *gorm.DB, logger logger.Logger) (objects.GroupRepository, error) {
	return &gormGroupRepository{
		db:     db,
		logger: logger,
	}, nil
}

func preloadGroup(db *gorm.DB) *gorm.DB {
	db = db.
		Preload("Metadata", func(db *gorm.DB) *gorm.DB { return db.Order("property, value") }).
		Preload("StorageObjects", func(db *gorm.DB) *gorm.DB { return db.Order("creation_time, id") })
	return preloadObject(db, "StorageObjects.")
}

func (r *gormGroupRepository) Create(ctx context.Context, group *objects.StorageObjectGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	model := &models.StorageObjectGroupModel{}
	model.FromDomain(group)

	if err := r.db.WithContext(ctx).Omit("Metadata.*", "StorageObjects").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w (%s)", objects.ErrGroupNameTaken, group.Name)
		}
		return fmt.Errorf("failed to create storage object group: %w", err)
	}

	r.logger.Debug("created storage object group", "id", group.ID, "name", group.Name)
	return nil
}

func (r *gormGroupRepository) GetByID(ctx context.Context, id string) (*objects.StorageObjectGroup, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormGroupRepository) GetByName(ctx context.Context, name string) (*objects.StorageObjectGroup, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *gormGroupRepository) first(ctx context.Context, query string, arg string) (*objects.StorageObjectGroup, error) {
	var model models.StorageObjectGroupModel
	if err := preloadGroup(r.db.WithContext(ctx)).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w (%s)", objects.ErrGroupNotFound, arg)
		}
		return nil, fmt.Errorf("failed to fetch storage object group: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormGroupRepository) List(ctx context.Context) ([]*objects.StorageObjectGroup, error) {
	var modelList []*models.StorageObjectGroupModel
	if err := preloadGroup(r.db.WithContext(ctx)).Order("name").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch storage object groups: %w", err)
	}

	domainList := make([]*objects.StorageObjectGroup, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormGroupRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.WithContext(ctx).Model(&models.StorageObjectGroupModel{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch storage object group names: %w", err)
	}
	return names, nil
}

func (r *gormGroupRepository) Update(ctx context.Context, group *objects.StorageObjectGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	model := &models.StorageObjectGroupModel{}
	model.FromDomain(group)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := &models.StorageObjectGroupModel{ID: group.ID}
		if err := tx.Model(owner).Update("name", group.Name).Error; err != nil {
			return err
		}
		return replaceMetadata(tx, owner, model.Metadata)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w (%s)", objects.ErrGroupNameTaken, group.Name)
		}
		return fmt.Errorf("failed to update storage object group: %w", err)
	}

	r.logger.Debug("updated storage object group", "id", group.ID, "name", group.Name)
	return nil
}

func (r *gormGroupRepository) DeleteByID(ctx context.Context, id string) error {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []string{
			"DELETE FROM storage_object_access WHERE storage_object_id IN (SELECT id FROM storage_object WHERE group_id = ?)",
			"DELETE FROM storage_object_metadata WHERE storage_object_id IN (SELECT id FROM storage_object WHERE group_id = ?)",
			"DELETE FROM storage_object WHERE group_id = ?",
		}
		for _, statement := range statements {
			if err := tx.Exec(statement, id).Error; err != nil {
				return err
			}
		}

		result := tx.Select("Metadata").Delete(&models.StorageObjectGroupModel{ID: id})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete storage object group: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w (%s)", objects.ErrGroupNotFound, id)
	}

	r.logger.Debug("deleted storage object group", "id", id)
	return nil
}
