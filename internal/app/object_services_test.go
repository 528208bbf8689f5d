//go:build unit
// +build unit

package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/d1s-utils/hole/internal/domain/objects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func upload(name string, content []byte) *objects.Upload {
	return &objects.Upload{FileName: name, Size: int64(len(content)), Content: bytes.NewReader(content)}
}

// createObject runs Create against mocks that accept it and returns the persisted object.
func createObject(t *testing.T, ts *TestServices, group *objects.StorageObjectGroup, up *objects.Upload, key string) *objects.StorageObject {
	t.Helper()

	var created *objects.StorageObject
	ts.GroupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil).Once()
	ts.ObjectRepo.On("Create", mock.Anything, mock.AnythingOfType("*objects.StorageObject")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*objects.StorageObject) }).
		Return(nil).Once()
	ts.Events.On("Publish", mock.Anything, objects.EventObjectCreated, mock.Anything, mock.Anything).Return(nil).Once()

	object, err := ts.ObjectService.Create(context.Background(), up, group.ID, key)
	require.NoError(t, err)
	require.Same(t, created, object)
	return object
}

func readRaw(t *testing.T, ts *TestServices, object *objects.StorageObject, key string) ([]byte, error) {
	t.Helper()

	var content []byte
	err := ts.ObjectService.ReadRaw(context.Background(), object.ID, key, func(o *objects.StorageObject, r io.Reader) error {
		var err error
		content, err = io.ReadAll(r)
		return err
	})
	return content, err
}

func TestObjectService_CreateAndReadRaw(t *testing.T) {
	ts := SetupTestServices(t)
	group := NewTestGroup("documents")
	content := []byte("hello, hole")

	object := createObject(t, ts, group, upload("../notes.txt", content), "")

	sum := sha256.Sum256(content)
	assert.Equal(t, "notes.txt", object.Name)
	assert.Equal(t, group.ID, object.GroupID)
	assert.False(t, object.Encrypted)
	assert.Equal(t, hex.EncodeToString(sum[:]), object.Digest)
	assert.Equal(t, int64(len(content)), object.ContentLength)
	assert.True(t, strings.HasPrefix(object.ContentType, "text/plain"))

	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)
	ts.ObjectRepo.On("RecordAccess", mock.Anything, mock.AnythingOfType("*objects.StorageObjectAccess")).Return(nil).Once()
	ts.Events.On("Publish", mock.Anything, objects.EventObjectAccessed, object.ID, mock.AnythingOfType("objects.AccessView")).Return(nil).Once()

	read, err := readRaw(t, ts, object, "")
	require.NoError(t, err)
	assert.Equal(t, content, read)

	ts.ObjectRepo.AssertExpectations(t)
	ts.Events.AssertExpectations(t)
}

func TestObjectService_EncryptedRoundTrip(t *testing.T) {
	ts := SetupTestServices(t)
	group := NewTestGroup("secrets")
	content := bytes.Repeat([]byte("classified "), 5000)

	object := createObject(t, ts, group, upload("secret.txt", content), "passw0rd")
	assert.True(t, object.Encrypted)
	assert.Equal(t, int64(len(content)), object.ContentLength)

	stored, err := os.ReadFile(ts.Root + "/" + object.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "classified")

	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)

	t.Run("missing key", func(t *testing.T) {
		_, err := readRaw(t, ts, object, "")
		assert.ErrorIs(t, err, objects.ErrEncryptionKeyMissing)
	})

	t.Run("wrong key", func(t *testing.T) {
		called := false
		err := ts.ObjectService.ReadRaw(context.Background(), object.ID, "wrong", func(*objects.StorageObject, io.Reader) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, objects.ErrInvalidEncryptionKey)
		assert.False(t, called)
	})

	t.Run("right key", func(t *testing.T) {
		ts.ObjectRepo.On("RecordAccess", mock.Anything, mock.Anything).Return(nil).Once()
		ts.Events.On("Publish", mock.Anything, objects.EventObjectAccessed, object.ID, mock.Anything).Return(nil).Once()

		read, err := readRaw(t, ts, object, "passw0rd")
		require.NoError(t, err)
		assert.Equal(t, content, read)
	})
}

func TestObjectService_Create_Rejections(t *testing.T) {
	ts := SetupTestServices(t)
	ctx := context.Background()

	_, err := ts.ObjectService.Create(ctx, upload("empty.txt", nil), "g", "key")
	assert.ErrorIs(t, err, objects.ErrNothingToEncrypt)

	_, err = ts.ObjectService.Create(ctx, upload("..", []byte("x")), "g", "")
	assert.ErrorIs(t, err, objects.ErrFileNameMissing)

	_, err = ts.ObjectService.Create(ctx, nil, "g", "")
	assert.ErrorIs(t, err, objects.ErrInvalidInput)

	ts.GroupRepo.On("GetByID", mock.Anything, "missing").Return(nil, objects.ErrGroupNotFound)
	ts.GroupRepo.On("GetByName", mock.Anything, "missing").Return(nil, objects.ErrGroupNotFound)

	_, err = ts.ObjectService.Create(ctx, upload("a.txt", []byte("x")), "missing", "")
	assert.ErrorIs(t, err, objects.ErrGroupNotFound)

	ts.ObjectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestObjectService_Create_ResolvesGroupByName(t *testing.T) {
	ts := SetupTestServices(t)
	group := NewTestGroup("documents")

	ts.GroupRepo.On("GetByID", mock.Anything, "documents").Return(nil, objects.ErrGroupNotFound)
	ts.GroupRepo.On("GetByName", mock.Anything, "documents").Return(group, nil)
	ts.ObjectRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ts.Events.On("Publish", mock.Anything, objects.EventObjectCreated, mock.Anything, mock.Anything).Return(nil)

	object, err := ts.ObjectService.Create(context.Background(), upload("a.txt", []byte("x")), "documents", "")
	require.NoError(t, err)
	assert.Equal(t, group.ID, object.GroupID)
}

func TestObjectService_Create_RemovesContentWhenNotPersisted(t *testing.T) {
	ts := SetupTestServices(t)
	group := NewTestGroup("documents")

	ts.GroupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	ts.ObjectRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database is down"))

	_, err := ts.ObjectService.Create(context.Background(), upload("a.txt", []byte("content")), group.ID, "")
	assert.ErrorContains(t, err, "database is down")

	entries, err := os.ReadDir(ts.Root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	ts.Events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestObjectService_ReadRaw_EmptyContentIsAnAccess(t *testing.T) {
	ts := SetupTestServices(t)
	object := createObject(t, ts, NewTestGroup("documents"), upload("empty.txt", nil), "")
	assert.Zero(t, object.ContentLength)

	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)
	ts.ObjectRepo.On("RecordAccess", mock.Anything, mock.Anything).Return(nil).Once()
	ts.Events.On("Publish", mock.Anything, objects.EventObjectAccessed, object.ID, mock.Anything).Return(nil).Once()

	read, err := readRaw(t, ts, object, "")
	require.NoError(t, err)
	assert.Empty(t, read)
	ts.ObjectRepo.AssertExpectations(t)
}

func TestObjectService_ReadRaw_FailedConsumeIsNoAccess(t *testing.T) {
	ts := SetupTestServices(t)
	object := createObject(t, ts, NewTestGroup("documents"), upload("a.txt", []byte("abc")), "")
	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)

	err := ts.ObjectService.ReadRaw(context.Background(), object.ID, "", func(*objects.StorageObject, io.Reader) error {
		return errors.New("client went away")
	})
	assert.ErrorContains(t, err, "client went away")
	ts.ObjectRepo.AssertNotCalled(t, "RecordAccess", mock.Anything, mock.Anything)
}

func TestObjectService_LockedObject(t *testing.T) {
	ts := SetupTestServices(t)
	ctx := context.Background()

	release, err := ts.Locks.Lock(ctx, "busy")
	require.NoError(t, err)
	defer release()

	err = ts.ObjectService.ReadRaw(ctx, "busy", "", func(*objects.StorageObject, io.Reader) error { return nil })
	assert.ErrorIs(t, err, objects.ErrObjectLocked)

	err = ts.ObjectService.DeleteByID(ctx, "busy")
	assert.ErrorIs(t, err, objects.ErrObjectLocked)
}

func TestObjectService_Overwrite(t *testing.T) {
	ts := SetupTestServices(t)
	object := createObject(t, ts, NewTestGroup("documents"), upload("a.txt", []byte("first version")), "")

	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)
	ts.ObjectRepo.On("Update", mock.Anything, object).Return(nil).Once()
	ts.Events.On("Publish", mock.Anything, objects.EventObjectOverwritten, object.ID, mock.AnythingOfType("objects.ObjectView")).Return(nil).Once()

	second := []byte("second version, now encrypted")
	updated, err := ts.ObjectService.Overwrite(context.Background(), object.ID, upload("b.txt", second), "key")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", updated.Name)
	assert.True(t, updated.Encrypted)
	assert.Equal(t, int64(len(second)), updated.ContentLength)

	ts.ObjectRepo.On("RecordAccess", mock.Anything, mock.Anything).Return(nil).Once()
	ts.Events.On("Publish", mock.Anything, objects.EventObjectAccessed, object.ID, mock.Anything).Return(nil).Once()

	read, err := readRaw(t, ts, updated, "key")
	require.NoError(t, err)
	assert.Equal(t, second, read)
}

func TestObjectService_Overwrite_NotFound(t *testing.T) {
	ts := SetupTestServices(t)
	ts.ObjectRepo.On("GetByID", mock.Anything, "missing").Return(nil, objects.ErrObjectNotFound)

	_, err := ts.ObjectService.Overwrite(context.Background(), "missing", upload("a.txt", []byte("x")), "")
	assert.ErrorIs(t, err, objects.ErrObjectNotFound)
}

func TestObjectService_Update(t *testing.T) {
	ts := SetupTestServices(t)
	ctx := context.Background()
	source := NewTestGroup("source")
	target := NewTestGroup("target")
	object := createObject(t, ts, source, upload("a.txt", []byte("x")), "")

	owner := &objects.MetadataProperty{ID: "m1", Property: "owner", Value: "alice"}

	ts.GroupRepo.On("GetByID", mock.Anything, "target").Return(nil, objects.ErrGroupNotFound)
	ts.GroupRepo.On("GetByName", mock.Anything, "target").Return(target, nil)
	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)
	ts.MetadataRepo.On("FindOrCreate", mock.Anything, "owner", "alice").Return(owner, nil)
	ts.ObjectRepo.On("Update", mock.Anything, object).Return(nil)
	ts.Events.On("Publish", mock.Anything, objects.EventObjectUpdated, object.ID, mock.Anything).Return(nil)

	updated, err := ts.ObjectService.Update(ctx, object.ID, &objects.ObjectUpdate{
		Name:     "renamed.txt",
		Group:    "target",
		Metadata: []objects.MetadataProperty{{Property: "owner", Value: "alice"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed.txt", updated.Name)
	assert.Equal(t, target.ID, updated.GroupID)
	assert.Equal(t, []objects.MetadataProperty{*owner}, updated.Metadata)
}

func TestObjectService_Update_DuplicateMetadata(t *testing.T) {
	ts := SetupTestServices(t)

	_, err := ts.ObjectService.Update(context.Background(), "id", &objects.ObjectUpdate{
		Name:  "a.txt",
		Group: "g",
		Metadata: []objects.MetadataProperty{
			{Property: "owner", Value: "alice"},
			{Property: "owner", Value: "bob"},
		},
	})
	assert.ErrorIs(t, err, objects.ErrDuplicateMetadataProperty)
}

func TestObjectService_DeleteByID(t *testing.T) {
	ts := SetupTestServices(t)
	object := createObject(t, ts, NewTestGroup("documents"), upload("a.txt", []byte("x")), "")

	ts.ObjectRepo.On("GetByID", mock.Anything, object.ID).Return(object, nil)
	ts.ObjectRepo.On("DeleteByID", mock.Anything, object.ID).Return(nil)
	ts.Events.On("Publish", mock.Anything, objects.EventObjectDeleted, object.ID, mock.Anything).Return(nil)

	require.NoError(t, ts.ObjectService.DeleteByID(context.Background(), object.ID))

	_, err := os.Stat(ts.Root + "/" + object.ID)
	assert.True(t, os.IsNotExist(err))
	assert.Zero(t, ts.Locks.Len())
}

func TestObjectService_List(t *testing.T) {
	ts := SetupTestServices(t)
	group := NewTestGroup("documents")
	listed := []*objects.StorageObject{{ID: "o1"}}

	ts.ObjectRepo.On("List", mock.Anything, "").Return(listed, nil)
	ts.GroupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	ts.ObjectRepo.On("List", mock.Anything, group.ID).Return(listed, nil)

	all, err := ts.ObjectService.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, listed, all)

	inGroup, err := ts.ObjectService.List(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, listed, inGroup)
}
