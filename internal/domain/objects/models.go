package objects

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/d1s-utils/hole/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// StorageObject is a stored file.
type StorageObject struct {
	ID           string    `validate:"required,uuid"`
	CreationTime time.Time `validate:"required"`
	Name         string    `validate:"required,max=255"`
	GroupID      string    `validate:"required"`
	Encrypted    bool
	// Digest is the hex SHA-256 of the plaintext content.
	Digest        string             `validate:"omitempty,len=64,hexadecimal"`
	ContentType   string             `validate:"max=255"`
	ContentLength int64              `validate:"min=0"`
	Metadata      []MetadataProperty `validate:"dive"`
	Accesses      []StorageObjectAccess
}

// Validate for validating StorageObject struct
func (o *StorageObject) Validate() error {
	return validateStruct(o)
}

// StorageObjectGroup is a named collection of storage objects.
type StorageObjectGroup struct {
	ID             string             `validate:"required,uuid"`
	CreationTime   time.Time          `validate:"required"`
	Name           string             `validate:"required,commonname"`
	Metadata       []MetadataProperty `validate:"dive"`
	StorageObjects []*StorageObject
}

// Validate for validating StorageObjectGroup struct
func (g *StorageObjectGroup) Validate() error {
	return validateStruct(g)
}

// MetadataProperty is a property/value pair. Equal pairs are stored once and shared.
type MetadataProperty struct {
	ID           string
	CreationTime time.Time
	Property     string `validate:"required,commonname"`
	Value        string `validate:"notblank,max=255"`
}

// StorageObjectAccess records one successful raw read of an object.
type StorageObjectAccess struct {
	ID       string    `validate:"required,uuid"`
	Time     time.Time `validate:"required"`
	ObjectID string    `validate:"required"`
}

// Upload is content received for an object.
type Upload struct {
	FileName string
	// Size is the announced size, used for checks before the content is read.
	Size    int64
	Content io.Reader
}

// ObjectUpdate carries the mutable attributes of an object.
type ObjectUpdate struct {
	Name     string             `validate:"required,max=255"`
	Group    string             `validate:"required"`
	Metadata []MetadataProperty `validate:"dive"`
}

// Validate for validating ObjectUpdate struct
func (u *ObjectUpdate) Validate() error {
	return validateStruct(u)
}

// GroupAlteration carries the attributes of a group to create or update.
type GroupAlteration struct {
	Name     string             `validate:"required,commonname"`
	Metadata []MetadataProperty `validate:"dive"`
}

// Validate for validating GroupAlteration struct
func (a *GroupAlteration) Validate() error {
	return validateStruct(a)
}

var validate = validators.New()

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Namespace(), fieldErr.Tag()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, messages)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
