// Package migrations applies the versioned schema of the relational store.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/d1s-utils/hole/internal/infrastructure/persistence/models"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed mysql/*.sql postgres/*.sql
var scripts embed.FS

// Up brings the schema of db to the latest version. SQLite databases,
// used for tests and local runs, are migrated from the GORM models instead.
func Up(db *gorm.DB, dbType string, log logger.Logger) error {
	if dbType == config.SqliteDbType {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return nil
	}

	m, err := newMigrate(db, dbType)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate %s schema: %w", dbType, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("database schema is up to date", "type", dbType, "version", version, "dirty", dirty)
	return nil
}

// Down reverts every migration. It is meant for tooling, not for the server.
func Down(db *gorm.DB, dbType string) error {
	if dbType == config.SqliteDbType {
		if err := db.Migrator().DropTable(
			"storage_object_access", "storage_object_group_metadata", "storage_object_metadata",
			&models.MetadataPropertyModel{}, &models.StorageObjectModel{}, &models.StorageObjectGroupModel{},
		); err != nil {
			return fmt.Errorf("failed to drop sqlite schema: %w", err)
		}
		return nil
	}

	m, err := newMigrate(db, dbType)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert %s schema: %w", dbType, err)
	}
	return nil
}

func newMigrate(db *gorm.DB, dbType string) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}

	var driver database.Driver
	switch dbType {
	case config.MysqlDbType:
		driver, err = migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	case config.PostgresDbType:
		driver, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", dbType, err)
	}

	source, err := iofs.New(scripts, dbType)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", dbType, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}
