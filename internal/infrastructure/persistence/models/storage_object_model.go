package models

import (
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
)

// StorageObjectModel is the GORM database model for storage objects
type StorageObjectModel struct {
	ID            string                     `gorm:"primaryKey;type:varchar(36)"`
	CreationTime  time.Time                  `gorm:"not null"`
	Name          string                     `gorm:"not null;type:varchar(255)"`
	GroupID       string                     `gorm:"not null;index;type:varchar(36)"`
	Encrypted     bool                       `gorm:"not null"`
	Digest        string                     `gorm:"type:varchar(64)"`
	ContentType   string                     `gorm:"type:varchar(255)"`
	ContentLength int64                      `gorm:"not null"`
	Metadata      []MetadataPropertyModel    `gorm:"many2many:storage_object_metadata;joinForeignKey:StorageObjectID;joinReferences:MetadataPropertyID"`
	Accesses      []StorageObjectAccessModel `gorm:"foreignKey:ObjectID"`
}

// TableName specifies the table name for GORM
func (StorageObjectModel) TableName() string {
	return "storage_object"
}

// ToDomain converts GORM model to domain entity
func (m *StorageObjectModel) ToDomain() *objects.StorageObject {
	accesses := make([]objects.StorageObjectAccess, len(m.Accesses))
	for i := range m.Accesses {
		accesses[i] = m.Accesses[i].ToDomain()
	}

	return &objects.StorageObject{
		ID:            m.ID,
		CreationTime:  m.CreationTime,
		Name:          m.Name,
		GroupID:       m.GroupID,
		Encrypted:     m.Encrypted,
		Digest:        m.Digest,
		ContentType:   m.ContentType,
		ContentLength: m.ContentLength,
		Metadata:      metadataToDomain(m.Metadata),
		Accesses:      accesses,
	}
}

// FromDomain converts domain entity to GORM model. Accesses are written separately.
func (m *StorageObjectModel) FromDomain(o *objects.StorageObject) {
	m.ID = o.ID
	m.CreationTime = o.CreationTime
	m.Name = o.Name
	m.GroupID = o.GroupID
	m.Encrypted = o.Encrypted
	m.Digest = o.Digest
	m.ContentType = o.ContentType
	m.ContentLength = o.ContentLength
	m.Metadata = MetadataFromDomain(o.Metadata)
}

// StorageObjectAccessModel records a raw read of an object.
type StorageObjectAccessModel struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)"`
	Time     time.Time `gorm:"column:access_time;not null"`
	ObjectID string    `gorm:"column:storage_object_id;not null;index;type:varchar(36)"`
}

// TableName specifies the table name for GORM
func (StorageObjectAccessModel) TableName() string {
	return "storage_object_access"
}

// ToDomain converts GORM model to domain entity
func (m *StorageObjectAccessModel) ToDomain() objects.StorageObjectAccess {
	return objects.StorageObjectAccess{ID: m.ID, Time: m.Time, ObjectID: m.ObjectID}
}

// FromDomain converts domain entity to GORM model
func (m *StorageObjectAccessModel) FromDomain(a *objects.StorageObjectAccess) {
	m.ID = a.ID
	m.Time = a.Time
	m.ObjectID = a.ObjectID
}
