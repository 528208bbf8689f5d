//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryTests exercises the repositories against dbType.
func runRepositoryTests(t *testing.T, dbType string) {
	t.Run("ObjectCreateAndGet", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		group := CreateTestGroup(t, tc, "documents")

		owner, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "alice")
		require.NoError(t, err)

		object := NewTestObject(t, group, "notes.txt")
		object.Metadata = []objects.MetadataProperty{*owner}
		require.NoError(t, tc.ObjectRepo.Create(ctx, object))

		fetched, err := tc.ObjectRepo.GetByID(ctx, object.ID)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", fetched.Name)
		assert.Equal(t, group.ID, fetched.GroupID)
		require.Len(t, fetched.Metadata, 1)
		assert.Equal(t, owner.ID, fetched.Metadata[0].ID)
		assert.Empty(t, fetched.Accesses)
	})

	t.Run("ObjectGetNotFound", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)

		_, err := tc.ObjectRepo.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, objects.ErrObjectNotFound)
	})

	t.Run("ObjectCreateInvalid", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)

		err := tc.ObjectRepo.Create(context.Background(), &objects.StorageObject{})
		assert.ErrorIs(t, err, objects.ErrInvalidInput)
	})

	t.Run("ObjectListByGroup", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		first := CreateTestGroup(t, tc, "first")
		second := CreateTestGroup(t, tc, "second")

		require.NoError(t, tc.ObjectRepo.Create(ctx, NewTestObject(t, first, "a.txt")))
		require.NoError(t, tc.ObjectRepo.Create(ctx, NewTestObject(t, second, "b.txt")))
		require.NoError(t, tc.ObjectRepo.Create(ctx, NewTestObject(t, second, "c.txt")))

		all, err := tc.ObjectRepo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		inSecond, err := tc.ObjectRepo.List(ctx, second.ID)
		require.NoError(t, err)
		assert.Len(t, inSecond, 2)
		for _, o := range inSecond {
			assert.Equal(t, second.ID, o.GroupID)
		}
	})

	t.Run("ObjectUpdateReplacesMetadata", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		first := CreateTestGroup(t, tc, "first")
		second := CreateTestGroup(t, tc, "second")

		owner, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "alice")
		require.NoError(t, err)
		tag, err := tc.MetadataRepo.FindOrCreate(ctx, "tag", "draft")
		require.NoError(t, err)

		object := NewTestObject(t, first, "a.txt")
		object.Metadata = []objects.MetadataProperty{*owner}
		require.NoError(t, tc.ObjectRepo.Create(ctx, object))

		object.Name = "renamed.txt"
		object.GroupID = second.ID
		object.Encrypted = true
		object.ContentLength = 12
		object.Metadata = []objects.MetadataProperty{*tag}
		require.NoError(t, tc.ObjectRepo.Update(ctx, object))

		fetched, err := tc.ObjectRepo.GetByID(ctx, object.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed.txt", fetched.Name)
		assert.Equal(t, second.ID, fetched.GroupID)
		assert.True(t, fetched.Encrypted)
		assert.Equal(t, int64(12), fetched.ContentLength)
		require.Len(t, fetched.Metadata, 1)
		assert.Equal(t, "tag", fetched.Metadata[0].Property)

		object.Encrypted = false
		object.Metadata = nil
		require.NoError(t, tc.ObjectRepo.Update(ctx, object))

		fetched, err = tc.ObjectRepo.GetByID(ctx, object.ID)
		require.NoError(t, err)
		assert.False(t, fetched.Encrypted)
		assert.Empty(t, fetched.Metadata)

		var properties int64
		require.NoError(t, tc.DB.Model(&models.MetadataPropertyModel{}).Count(&properties).Error)
		assert.Equal(t, int64(2), properties)
	})

	t.Run("ObjectAccessesAndDelete", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		group := CreateTestGroup(t, tc, "documents")
		object := NewTestObject(t, group, "a.txt")
		require.NoError(t, tc.ObjectRepo.Create(ctx, object))

		for i := 0; i < 2; i++ {
			require.NoError(t, tc.ObjectRepo.RecordAccess(ctx, &objects.StorageObjectAccess{
				ID:       uuid.NewString(),
				Time:     time.Now().UTC().Add(time.Duration(i) * time.Second),
				ObjectID: object.ID,
			}))
		}

		fetched, err := tc.ObjectRepo.GetByID(ctx, object.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Accesses, 2)
		assert.True(t, fetched.Accesses[0].Time.Before(fetched.Accesses[1].Time))

		require.NoError(t, tc.ObjectRepo.DeleteByID(ctx, object.ID))

		_, err = tc.ObjectRepo.GetByID(ctx, object.ID)
		assert.ErrorIs(t, err, objects.ErrObjectNotFound)

		var accesses int64
		require.NoError(t, tc.DB.Model(&models.StorageObjectAccessModel{}).Count(&accesses).Error)
		assert.Zero(t, accesses)

		assert.ErrorIs(t, tc.ObjectRepo.DeleteByID(ctx, object.ID), objects.ErrObjectNotFound)
	})

	t.Run("GroupLookupAndNames", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		CreateTestGroup(t, tc, "zeta")
		alpha := CreateTestGroup(t, tc, "alpha")

		byName, err := tc.GroupRepo.GetByName(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, alpha.ID, byName.ID)

		byID, err := tc.GroupRepo.GetByID(ctx, alpha.ID)
		require.NoError(t, err)
		assert.Equal(t, "alpha", byID.Name)

		_, err = tc.GroupRepo.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, objects.ErrGroupNotFound)

		names, err := tc.GroupRepo.ListNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "zeta"}, names)
	})

	t.Run("GroupListIncludesObjects", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		group := CreateTestGroup(t, tc, "documents")
		CreateTestGroup(t, tc, "empty")
		require.NoError(t, tc.ObjectRepo.Create(ctx, NewTestObject(t, group, "a.txt")))

		groups, err := tc.GroupRepo.List(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "documents", groups[0].Name)
		assert.Len(t, groups[0].StorageObjects, 1)
		assert.Empty(t, groups[1].StorageObjects)
	})

	t.Run("GroupNameTaken", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		CreateTestGroup(t, tc, "documents")

		duplicate := &objects.StorageObjectGroup{ID: uuid.NewString(), CreationTime: time.Now().UTC(), Name: "documents"}
		assert.ErrorIs(t, tc.GroupRepo.Create(context.Background(), duplicate), objects.ErrGroupNameTaken)
	})

	t.Run("GroupUpdate", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		group := CreateTestGroup(t, tc, "documents")

		label, err := tc.MetadataRepo.FindOrCreate(ctx, "label", "archive")
		require.NoError(t, err)

		group.Name = "archive"
		group.Metadata = []objects.MetadataProperty{*label}
		require.NoError(t, tc.GroupRepo.Update(ctx, group))

		fetched, err := tc.GroupRepo.GetByID(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "archive", fetched.Name)
		require.Len(t, fetched.Metadata, 1)
		assert.Equal(t, "archive", fetched.Metadata[0].Value)
	})

	t.Run("GroupDeleteCascades", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()
		group := CreateTestGroup(t, tc, "documents")
		other := CreateTestGroup(t, tc, "other")

		owner, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "alice")
		require.NoError(t, err)

		object := NewTestObject(t, group, "a.txt")
		object.Metadata = []objects.MetadataProperty{*owner}
		require.NoError(t, tc.ObjectRepo.Create(ctx, object))
		require.NoError(t, tc.ObjectRepo.RecordAccess(ctx, &objects.StorageObjectAccess{
			ID: uuid.NewString(), Time: time.Now().UTC(), ObjectID: object.ID,
		}))
		kept := NewTestObject(t, other, "b.txt")
		require.NoError(t, tc.ObjectRepo.Create(ctx, kept))

		require.NoError(t, tc.GroupRepo.DeleteByID(ctx, group.ID))

		_, err = tc.GroupRepo.GetByID(ctx, group.ID)
		assert.ErrorIs(t, err, objects.ErrGroupNotFound)
		_, err = tc.ObjectRepo.GetByID(ctx, object.ID)
		assert.ErrorIs(t, err, objects.ErrObjectNotFound)
		_, err = tc.ObjectRepo.GetByID(ctx, kept.ID)
		assert.NoError(t, err)

		assert.ErrorIs(t, tc.GroupRepo.DeleteByID(ctx, group.ID), objects.ErrGroupNotFound)
	})

	t.Run("MetadataFindOrCreateSharesPairs", func(t *testing.T) {
		tc := SetupTestDB(t, dbType)
		ctx := context.Background()

		first, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "alice")
		require.NoError(t, err)
		second, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "alice")
		require.NoError(t, err)
		other, err := tc.MetadataRepo.FindOrCreate(ctx, "owner", "bob")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.ID, other.ID)
		assert.Equal(t, "bob", other.Value)
	})
}
