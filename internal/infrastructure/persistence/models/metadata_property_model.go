package models

import (
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetadataPropertyModel is a property/value pair shared by objects and groups.
type MetadataPropertyModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	CreationTime time.Time `gorm:"not null"`
	Property     string    `gorm:"not null;type:varchar(255);uniqueIndex:idx_metadata_property_pair"`
	Value        string    `gorm:"not null;type:varchar(255);uniqueIndex:idx_metadata_property_pair"`
}

// TableName specifies the table name for GORM
func (MetadataPropertyModel) TableName() string {
	return "metadata_property"
}

// BeforeCreate assigns the identity of new pairs.
func (m *MetadataPropertyModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreationTime.IsZero() {
		m.CreationTime = time.Now().UTC()
	}
	return nil
}

// ToDomain converts GORM model to domain entity
func (m *MetadataPropertyModel) ToDomain() objects.MetadataProperty {
	return objects.MetadataProperty{
		ID:           m.ID,
		CreationTime: m.CreationTime,
		Property:     m.Property,
		Value:        m.Value,
	}
}

// FromDomain converts domain entity to GORM model
func (m *MetadataPropertyModel) FromDomain(p objects.MetadataProperty) {
	m.ID = p.ID
	m.CreationTime = p.CreationTime
	m.Property = p.Property
	m.Value = p.Value
}

func metadataToDomain(list []MetadataPropertyModel) []objects.MetadataProperty {
	out := make([]objects.MetadataProperty, len(list))
	for i := range list {
		out[i] = list[i].ToDomain()
	}
	return out
}

// MetadataFromDomain converts resolved domain properties to models.
func MetadataFromDomain(list []objects.MetadataProperty) []MetadataPropertyModel {
	out := make([]MetadataPropertyModel, len(list))
	for i := range list {
		out[i].FromDomain(list[i])
	}
	return out
}
