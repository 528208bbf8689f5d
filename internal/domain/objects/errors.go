package objects

import "errors"

var (
	ErrInvalidInput              = errors.New("validation failed")
	ErrObjectNotFound            = errors.New("storage object was not found by the provided identifier")
	ErrGroupNotFound             = errors.New("storage object group was not found by the provided identifier or name")
	ErrGroupNameTaken            = errors.New("storage object group with the provided name already exists")
	ErrDuplicateMetadataProperty = errors.New("metadata contains a duplicate property")
	ErrFileNameMissing           = errors.New("file name must be present within the request")
	ErrNothingToEncrypt          = errors.New("nothing to encrypt: the content is empty")
	ErrEncryptionKeyMissing      = errors.New("the storage object is encrypted but the encryption key is not present")
	ErrInvalidEncryptionKey      = errors.New("invalid encryption key or corrupted content")
	ErrObjectLocked              = errors.New("storage object is locked, please try again later")
)
