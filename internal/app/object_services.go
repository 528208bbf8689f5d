package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"github.com/d1s-utils/hole/internal/pkg/metrics"

	"github.com/google/uuid"
)

// objectService implements the ObjectService interface on top of the object store and repositories
type objectService struct {
	objectRepository objects.ObjectRepository
	groupRepository  objects.GroupRepository
	metadataService  objects.MetadataService
	store            objects.ObjectStore
	cipher           objects.ContentCipher
	detector         objects.ContentTypeDetector
	locks            objects.LockService
	events           objects.EventPublisher
	logger           logger.Logger
}

// NewObjectService creates a new instance of ObjectService
func NewObjectService(
	objectRepository objects.ObjectRepository,
	groupRepository objects.GroupRepository,
	metadataService objects.MetadataService,
	store objects.ObjectStore,
	cipher objects.ContentCipher,
	detector objects.ContentTypeDetector,
	locks objects.LockService,
	events objects.EventPublisher,
	logger logger.Logger,
) (objects.ObjectService, error) {
	return &objectService{
		objectRepository: objectRepository,
		groupRepository:  groupRepository,
		metadataService:  metadataService,
		store:            store,
		cipher:           cipher,
		detector:         detector,
		locks:            locks,
		events:           events,
		logger:           logger,
	}, nil
}

func (s *objectService) GetByID(ctx context.Context, id string) (*objects.StorageObject, error) {
	return s.objectRepository.GetByID(ctx, id)
}

func (s *objectService) List(ctx context.Context, groupRef string) ([]*objects.StorageObject, error) {
	if groupRef == "" {
		return s.objectRepository.List(ctx, "")
	}

	group, err := findGroup(ctx, s.groupRepository, groupRef)
	if err != nil {
		return nil, err
	}
	return s.objectRepository.List(ctx, group.ID)
}

// Create stores the upload as a new object of the referenced group.
func (s *objectService) Create(ctx context.Context, upload *objects.Upload, groupRef, encryptionKey string) (*objects.StorageObject, error) {
	name, err := checkUpload(upload, encryptionKey)
	if err != nil {
		return nil, err
	}

	group, err := findGroup(ctx, s.groupRepository, groupRef)
	if err != nil {
		return nil, err
	}

	object := &objects.StorageObject{
		ID:           uuid.NewString(),
		CreationTime: time.Now().UTC(),
		Name:         name,
		GroupID:      group.ID,
	}

	release, err := s.locks.Lock(ctx, object.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.writeContent(ctx, object, upload.Content, encryptionKey); err != nil {
		return nil, err
	}

	if err := s.objectRepository.Create(ctx, object); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), object.ID); delErr != nil {
			s.logger.Error("failed to remove content of unsaved object", "id", object.ID, "error", delErr)
		}
		return nil, err
	}

	metrics.ObjectOperations.WithLabelValues("create").Inc()
	s.logger.Info("storage object created",
		"id", object.ID,
		"name", object.Name,
		"group", group.Name,
		"encrypted", object.Encrypted,
		"size", object.ContentLength)

	publish(ctx, s.events, s.logger, objects.EventObjectCreated, object.ID, objects.NewObjectView(object))
	return object, nil
}

// Update changes the name, group and metadata of an object.
func (s *objectService) Update(ctx context.Context, id string, update *objects.ObjectUpdate) (*objects.StorageObject, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	if err := s.metadataService.Check(update.Metadata); err != nil {
		return nil, err
	}

	name := objects.SanitizeFileName(update.Name)
	if name == "" {
		return nil, objects.ErrFileNameMissing
	}

	group, err := findGroup(ctx, s.groupRepository, update.Group)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	object, err := s.objectRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	metadata, err := s.metadataService.Resolve(ctx, update.Metadata)
	if err != nil {
		return nil, err
	}

	object.Name = name
	object.GroupID = group.ID
	object.Metadata = metadata
	if err := s.objectRepository.Update(ctx, object); err != nil {
		return nil, err
	}

	metrics.ObjectOperations.WithLabelValues("update").Inc()
	s.logger.Info("storage object updated", "id", object.ID, "name", object.Name, "group", group.Name)

	publish(ctx, s.events, s.logger, objects.EventObjectUpdated, object.ID, objects.NewObjectView(object))
	return object, nil
}

// Overwrite replaces the content of an object, switching its encryption to match encryptionKey.
func (s *objectService) Overwrite(ctx context.Context, id string, upload *objects.Upload, encryptionKey string) (*objects.StorageObject, error) {
	name, err := checkUpload(upload, encryptionKey)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	object, err := s.objectRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	object.Name = name
	if err := s.writeContent(ctx, object, upload.Content, encryptionKey); err != nil {
		return nil, err
	}

	if err := s.objectRepository.Update(ctx, object); err != nil {
		return nil, err
	}

	metrics.ObjectOperations.WithLabelValues("overwrite").Inc()
	s.logger.Info("storage object overwritten",
		"id", object.ID,
		"name", object.Name,
		"encrypted", object.Encrypted,
		"size", object.ContentLength)

	publish(ctx, s.events, s.logger, objects.EventObjectOverwritten, object.ID, objects.NewObjectView(object))
	return object, nil
}

// ReadRaw hands the plaintext of an object to consume while holding its read lock.
// Encrypted content is authenticated before consume is called.
func (s *objectService) ReadRaw(ctx context.Context, id, encryptionKey string, consume objects.RawConsumer) error {
	release, err := s.locks.RLock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	object, err := s.objectRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if object.Encrypted {
		if encryptionKey == "" {
			return objects.ErrEncryptionKeyMissing
		}
		if err := s.verify(ctx, id, encryptionKey); err != nil {
			return err
		}
	}

	stored, err := s.store.Open(ctx, id)
	if err != nil {
		return err
	}
	defer func() {
		if err := stored.Close(); err != nil {
			s.logger.Warn("failed to close object content", "id", id, "error", err)
		}
	}()

	var content io.Reader = stored
	if object.Encrypted {
		if content, err = s.cipher.Decrypt(stored, encryptionKey); err != nil {
			return err
		}
	}

	counter := &countingReader{r: content}
	if err := consume(object, counter); err != nil {
		return err
	}
	metrics.BytesRead.Add(float64(counter.n))

	access := &objects.StorageObjectAccess{
		ID:       uuid.NewString(),
		Time:     time.Now().UTC(),
		ObjectID: object.ID,
	}
	if err := s.objectRepository.RecordAccess(context.WithoutCancel(ctx), access); err != nil {
		s.logger.Error("failed to record storage object access", "id", object.ID, "error", err)
		return nil
	}

	metrics.ObjectOperations.WithLabelValues("read").Inc()
	publish(ctx, s.events, s.logger, objects.EventObjectAccessed, object.ID, objects.NewAccessView(access))
	return nil
}

// DeleteByID removes the object row together with its content.
func (s *objectService) DeleteByID(ctx context.Context, id string) error {
	release, err := s.locks.Lock(ctx, id)
	if err != nil {
		return err
	}

	object, err := s.objectRepository.GetByID(ctx, id)
	if err != nil {
		release()
		return err
	}

	if err := s.objectRepository.DeleteByID(ctx, id); err != nil {
		release()
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete storage object content", "id", id, "error", err)
	}

	release()
	s.locks.Remove(id)

	metrics.ObjectOperations.WithLabelValues("delete").Inc()
	s.logger.Info("storage object deleted", "id", id, "name", object.Name)

	publish(ctx, s.events, s.logger, objects.EventObjectDeleted, object.ID, objects.NewObjectView(object))
	return nil
}

func (s *objectService) verify(ctx context.Context, id, encryptionKey string) error {
	stored, err := s.store.Open(ctx, id)
	if err != nil {
		return err
	}
	defer stored.Close()

	return s.cipher.Verify(stored, encryptionKey)
}

// writeContent streams content to the store once, filling the content attributes of object.
func (s *objectService) writeContent(ctx context.Context, object *objects.StorageObject, content io.Reader, encryptionKey string) error {
	contentType, content, err := s.detector.Detect(content, object.Name)
	if err != nil {
		return fmt.Errorf("failed to detect content type: %w", err)
	}

	w, err := s.store.Create(ctx, object.ID)
	if err != nil {
		return err
	}
	abort := func() {
		if err := w.Abort(); err != nil {
			s.logger.Warn("failed to discard object content", "id", object.ID, "error", err)
		}
	}

	var sink io.Writer = w
	var encrypter io.WriteCloser
	if encryptionKey != "" {
		if encrypter, err = s.cipher.Encrypt(w, encryptionKey); err != nil {
			abort()
			return err
		}
		sink = encrypter
	}

	digest := sha256.New()
	n, err := io.Copy(io.MultiWriter(sink, digest), content)
	if err != nil {
		abort()
		return fmt.Errorf("failed to store content of %s: %w", object.ID, err)
	}
	if encrypter != nil {
		if n == 0 {
			abort()
			return objects.ErrNothingToEncrypt
		}
		if err := encrypter.Close(); err != nil {
			abort()
			return fmt.Errorf("failed to encrypt content of %s: %w", object.ID, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	object.Encrypted = encrypter != nil
	object.Digest = hex.EncodeToString(digest.Sum(nil))
	object.ContentType = contentType
	object.ContentLength = n
	metrics.BytesWritten.Add(float64(n))
	return nil
}

func checkUpload(upload *objects.Upload, encryptionKey string) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", fmt.Errorf("%w: content is missing", objects.ErrInvalidInput)
	}
	if encryptionKey != "" && upload.Size == 0 {
		return "", objects.ErrNothingToEncrypt
	}

	name := objects.SanitizeFileName(upload.FileName)
	if name == "" {
		return "", objects.ErrFileNameMissing
	}
	return name, nil
}
