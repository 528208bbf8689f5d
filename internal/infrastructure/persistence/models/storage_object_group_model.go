package models

import (
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
)

// StorageObjectGroupModel is the GORM database model for groups
type StorageObjectGroupModel struct {
	ID             string                  `gorm:"primaryKey;type:varchar(36)"`
	CreationTime   time.Time               `gorm:"not null"`
	Name           string                  `gorm:"not null;uniqueIndex;type:varchar(255)"`
	Metadata       []MetadataPropertyModel `gorm:"many2many:storage_object_group_metadata;joinForeignKey:StorageObjectGroupID;joinReferences:MetadataPropertyID"`
	StorageObjects []StorageObjectModel    `gorm:"foreignKey:GroupID"`
}

// TableName specifies the table name for GORM
func (StorageObjectGroupModel) TableName() string {
	return "storage_object_group"
}

// ToDomain converts GORM model to domain entity
func (m *StorageObjectGroupModel) ToDomain() *objects.StorageObjectGroup {
	storageObjects := make([]*objects.StorageObject, len(m.StorageObjects))
	for i := range m.StorageObjects {
		storageObjects[i] = m.StorageObjects[i].ToDomain()
	}

	return &objects.StorageObjectGroup{
		ID:             m.ID,
		CreationTime:   m.CreationTime,
		Name:           m.Name,
		Metadata:       metadataToDomain(m.Metadata),
		StorageObjects: storageObjects,
	}
}

// FromDomain converts domain entity to GORM model. Objects are written through their own repository.
func (m *StorageObjectGroupModel) FromDomain(g *objects.StorageObjectGroup) {
	m.ID = g.ID
	m.CreationTime = g.CreationTime
	m.Name = g.Name
	m.Metadata = MetadataFromDomain(g.Metadata)
}

// All lists every model in dependency order.
func All() []interface{} {
	return []interface{}{
		&MetadataPropertyModel{},
		&StorageObjectGroupModel{},
		&StorageObjectModel{},
		&StorageObjectAccessModel{},
	}
}
