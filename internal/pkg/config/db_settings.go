package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Database type constants
const (
	MysqlDbType    = "mysql"
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// DatabaseSettings holds the connection settings of the relational store.
// Mysql covers MariaDB as well.
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=mysql postgres sqlite"`
	DSN  string `mapstructure:"dsn" validate:"required"`
	// Name is created on connect if missing (postgres only).
	Name string `mapstructure:"name"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	return nil
}
