//go:build unit
// +build unit

package app

import (
	"testing"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/contenttype"
	"github.com/d1s-utils/hole/internal/infrastructure/cryptography"
	"github.com/d1s-utils/hole/internal/infrastructure/locking"
	"github.com/d1s-utils/hole/internal/infrastructure/storage"
	"github.com/d1s-utils/hole/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testLockTimeout = 50 * time.Millisecond

// TestServices holds the services under test with mocked repositories and real infrastructure
type TestServices struct {
	ObjectService objects.ObjectService
	GroupService  objects.GroupService

	ObjectRepo   *MockObjectRepository
	GroupRepo    *MockGroupRepository
	MetadataRepo *MockMetadataRepository
	Events       *MockEventPublisher

	Store objects.ObjectStore
	Root  string
	Locks *locking.Registry
}

// SetupTestServices wires the services to a temporary filesystem store
func SetupTestServices(t *testing.T) *TestServices {
	t.Helper()

	log := testutil.SetupTestLogger(t)
	root := testutil.CreateStorageRoot(t)

	store, err := storage.NewFilesystemStore(root, log)
	require.NoError(t, err)

	cipher, err := cryptography.NewAESProcessor(log)
	require.NoError(t, err)

	ts := &TestServices{
		ObjectRepo:   new(MockObjectRepository),
		GroupRepo:    new(MockGroupRepository),
		MetadataRepo: new(MockMetadataRepository),
		Events:       new(MockEventPublisher),
		Store:        store,
		Root:         root,
		Locks:        locking.NewRegistry(testLockTimeout, log),
	}

	metadataService, err := NewMetadataService(ts.MetadataRepo, log)
	require.NoError(t, err)

	ts.ObjectService, err = NewObjectService(ts.ObjectRepo, ts.GroupRepo, metadataService, store, cipher,
		contenttype.NewDetector(), ts.Locks, ts.Events, log)
	require.NoError(t, err)

	ts.GroupService, err = NewGroupService(ts.GroupRepo, metadataService, store, ts.Locks, ts.Events, log)
	require.NoError(t, err)

	return ts
}

// NewTestGroup returns a group with a fresh ID
func NewTestGroup(name string) *objects.StorageObjectGroup {
	return &objects.StorageObjectGroup{
		ID:           uuid.NewString(),
		CreationTime: time.Now().UTC(),
		Name:         name,
	}
}
