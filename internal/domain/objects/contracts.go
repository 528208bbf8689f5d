package objects

import (
	"context"
	"io"
)

// RawConsumer receives an object's plaintext content while the object is read-locked.
type RawConsumer func(object *StorageObject, content io.Reader) error

// ObjectService defines operations on storage objects and their content.
type ObjectService interface {
	// GetByID retrieves an object by ID.
	GetByID(ctx context.Context, id string) (*StorageObject, error)

	// List retrieves all objects, or only those of the group referenced by ID or name when groupRef is set.
	List(ctx context.Context, groupRef string) ([]*StorageObject, error)

	// Create stores new content in the referenced group, encrypting it when encryptionKey is not blank.
	Create(ctx context.Context, upload *Upload, groupRef, encryptionKey string) (*StorageObject, error)

	// Update changes the name, group and metadata of an object.
	Update(ctx context.Context, id string, update *ObjectUpdate) (*StorageObject, error)

	// Overwrite replaces the content of an object.
	Overwrite(ctx context.Context, id string, upload *Upload, encryptionKey string) (*StorageObject, error)

	// ReadRaw hands the plaintext content to consume and records the access on success.
	ReadRaw(ctx context.Context, id, encryptionKey string, consume RawConsumer) error

	// DeleteByID removes an object and its content.
	DeleteByID(ctx context.Context, id string) error
}

// GroupService defines operations on storage object groups.
type GroupService interface {
	// GetByRef retrieves a group by ID, falling back to its name.
	GetByRef(ctx context.Context, ref string) (*StorageObjectGroup, error)

	// List retrieves all groups with their objects.
	List(ctx context.Context) ([]*StorageObjectGroup, error)

	// ListNames retrieves the sorted names of all groups.
	ListNames(ctx context.Context) ([]string, error)

	// Create adds a group with a unique name.
	Create(ctx context.Context, alteration *GroupAlteration) (*StorageObjectGroup, error)

	// Update renames a group and replaces its metadata.
	Update(ctx context.Context, ref string, alteration *GroupAlteration) (*StorageObjectGroup, error)

	// DeleteByRef removes a group along with all its objects.
	DeleteByRef(ctx context.Context, ref string) error
}

// MetadataService resolves client supplied metadata into persisted properties.
type MetadataService interface {
	// Check rejects metadata naming a property more than once.
	Check(metadata []MetadataProperty) error

	// Resolve returns persisted properties for metadata, creating missing pairs.
	Resolve(ctx context.Context, metadata []MetadataProperty) ([]MetadataProperty, error)
}

// ObjectRepository persists storage objects.
type ObjectRepository interface {
	Create(ctx context.Context, object *StorageObject) error
	GetByID(ctx context.Context, id string) (*StorageObject, error)
	// List returns all objects, or those of groupID when it is set.
	List(ctx context.Context, groupID string) ([]*StorageObject, error)
	// Update saves the attributes and replaces the metadata of an object.
	Update(ctx context.Context, object *StorageObject) error
	DeleteByID(ctx context.Context, id string) error
	RecordAccess(ctx context.Context, access *StorageObjectAccess) error
}

// GroupRepository persists storage object groups.
type GroupRepository interface {
	Create(ctx context.Context, group *StorageObjectGroup) error
	GetByID(ctx context.Context, id string) (*StorageObjectGroup, error)
	GetByName(ctx context.Context, name string) (*StorageObjectGroup, error)
	List(ctx context.Context) ([]*StorageObjectGroup, error)
	ListNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, group *StorageObjectGroup) error
	// DeleteByID removes the group and the rows of all its objects.
	DeleteByID(ctx context.Context, id string) error
}

// MetadataRepository persists shared metadata properties.
type MetadataRepository interface {
	// FindOrCreate returns the stored pair, creating it first when absent.
	FindOrCreate(ctx context.Context, property, value string) (*MetadataProperty, error)
}

// ContentWriter receives object content. Content becomes visible on Close; Abort discards it.
type ContentWriter interface {
	io.WriteCloser
	Abort() error
}

// ObjectStore holds the (possibly encrypted) bytes of objects, keyed by object ID.
type ObjectStore interface {
	// Create starts writing the content of id, replacing any previous content once closed.
	Create(ctx context.Context, id string) (ContentWriter, error)
	// Open returns the stored content of id.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	// Delete removes the content of id. Deleting absent content is not an error.
	Delete(ctx context.Context, id string) error
}

// ContentCipher encrypts and decrypts content streams with a password.
type ContentCipher interface {
	// Encrypt returns a writer encrypting into w; Close writes the trailer.
	Encrypt(w io.Writer, password string) (io.WriteCloser, error)
	// Decrypt returns a reader yielding the plaintext of r, failing at EOF if the content does not authenticate.
	Decrypt(r io.Reader, password string) (io.Reader, error)
	// Verify consumes r and checks that it authenticates under password.
	Verify(r io.Reader, password string) error
}

// ContentTypeDetector determines the media type of content.
type ContentTypeDetector interface {
	// Detect inspects the head of r and returns the media type together with a reader replaying all of r.
	Detect(r io.Reader, fileName string) (string, io.Reader, error)
}

// LockService serializes access to object content.
type LockService interface {
	// RLock acquires a shared lock on id and returns its release function.
	RLock(ctx context.Context, id string) (func(), error)
	// Lock acquires an exclusive lock on id and returns its release function.
	Lock(ctx context.Context, id string) (func(), error)
	// Remove forgets the lock of a deleted object.
	Remove(id string)
}

// EventPublisher publishes long-polling events.
type EventPublisher interface {
	Publish(ctx context.Context, group, principal string, data interface{}) error
}
