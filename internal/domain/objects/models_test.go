//go:build unit
// +build unit

package objects

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validObject() *StorageObject {
	return &StorageObject{
		ID:            uuid.NewString(),
		CreationTime:  time.Now(),
		Name:          "report.pdf",
		GroupID:       uuid.NewString(),
		Digest:        strings.Repeat("ab", 32),
		ContentType:   "application/pdf",
		ContentLength: 42,
		Metadata:      []MetadataProperty{{Property: "owner", Value: "alice"}},
	}
}

func TestStorageObject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *StorageObject)
		wantErr bool
	}{
		{"valid", func(o *StorageObject) {}, false},
		{"empty content has no digest", func(o *StorageObject) { o.Digest = ""; o.ContentLength = 0 }, false},
		{"missing id", func(o *StorageObject) { o.ID = "" }, true},
		{"invalid id", func(o *StorageObject) { o.ID = "not-a-uuid" }, true},
		{"missing name", func(o *StorageObject) { o.Name = "" }, true},
		{"missing group", func(o *StorageObject) { o.GroupID = "" }, true},
		{"short digest", func(o *StorageObject) { o.Digest = "abcd" }, true},
		{"negative length", func(o *StorageObject) { o.ContentLength = -1 }, true},
		{"invalid metadata property", func(o *StorageObject) {
			o.Metadata = []MetadataProperty{{Property: "has space", Value: "x"}}
		}, true},
		{"empty metadata value", func(o *StorageObject) {
			o.Metadata = []MetadataProperty{{Property: "owner", Value: ""}}
		}, true},
		{"whitespace metadata value", func(o *StorageObject) {
			o.Metadata = []MetadataProperty{{Property: "owner", Value: "  \t "}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validObject()
			tt.mutate(o)

			err := o.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageObjectGroup_Validate(t *testing.T) {
	group := &StorageObjectGroup{ID: uuid.NewString(), CreationTime: time.Now(), Name: "invoices"}
	assert.NoError(t, group.Validate())

	group.Name = "two words"
	assert.ErrorIs(t, group.Validate(), ErrInvalidInput)
}

func TestGroupAlteration_Validate(t *testing.T) {
	assert.NoError(t, (&GroupAlteration{Name: "images"}).Validate())
	assert.Error(t, (&GroupAlteration{}).Validate())
	assert.Error(t, (&GroupAlteration{Name: "images", Metadata: []MetadataProperty{{Property: "", Value: "v"}}}).Validate())
	assert.ErrorIs(t, (&GroupAlteration{Name: "images", Metadata: []MetadataProperty{{Property: "p", Value: "   "}}}).Validate(), ErrInvalidInput)
}

func TestObjectUpdate_Validate(t *testing.T) {
	assert.NoError(t, (&ObjectUpdate{Name: "a.txt", Group: "images"}).Validate())
	assert.Error(t, (&ObjectUpdate{Group: "images"}).Validate())
	assert.Error(t, (&ObjectUpdate{Name: "a.txt"}).Validate())
}
