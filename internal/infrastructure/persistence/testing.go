//go:build integration
// +build integration

package persistence

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/migrations"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const postgresAdminDSN = "user=postgres password=postgres host=localhost port=5432 sslmode=disable"

// TestContext holds test database and repositories
type TestContext struct {
	DB           *gorm.DB
	ObjectRepo   objects.ObjectRepository
	GroupRepo    objects.GroupRepository
	MetadataRepo objects.MetadataRepository
}

// SetupTestDB initializes a migrated test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	log := testutil.SetupTestLogger(t)

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  postgresAdminDSN,
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			_ = DropDatabase(postgresAdminDSN+" dbname=postgres", uniqueDBName, log)
		}

	case config.MysqlDbType:
		dsn := os.Getenv("HOLE_TEST_MYSQL_DSN")
		if dsn == "" {
			t.Skip("HOLE_TEST_MYSQL_DSN is not set")
		}
		settings = config.DatabaseSettings{
			Type: config.MysqlDbType,
			DSN:  dsn,
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	require.NoError(t, migrations.Up(db, dbType, log), "Failed to migrate schema")

	t.Cleanup(func() {
		if dbType == config.MysqlDbType {
			_ = migrations.Down(db, dbType)
		}
		_ = CloseDB(db)
		cleanupFunc()
	})

	objectRepo, err := NewGormObjectRepository(db, log)
	require.NoError(t, err)

	groupRepo, err := NewGormGroupRepository(db, log)
	require.NoError(t, err)

	metadataRepo, err := NewGormMetadataRepository(db, log)
	require.NoError(t, err)

	return &TestContext{
		DB:           db,
		ObjectRepo:   objectRepo,
		GroupRepo:    groupRepo,
		MetadataRepo: metadataRepo,
	}
}

// CreateTestGroup persists a group with the given name
func CreateTestGroup(t *testing.T, tc *TestContext, name string) *objects.StorageObjectGroup {
	t.Helper()

	group := &objects.StorageObjectGroup{
		ID:           uuid.NewString(),
		CreationTime: time.Now().UTC(),
		Name:         name,
	}
	require.NoError(t, tc.GroupRepo.Create(context.Background(), group))
	return group
}

// NewTestObject returns an unsaved object of group
func NewTestObject(t *testing.T, group *objects.StorageObjectGroup, name string) *objects.StorageObject {
	t.Helper()

	return &objects.StorageObject{
		ID:            uuid.NewString(),
		CreationTime:  time.Now().UTC(),
		Name:          name,
		GroupID:       group.ID,
		Digest:        "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ContentType:   "text/plain; charset=utf-8",
		ContentLength: 0,
	}
}
