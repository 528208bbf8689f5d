package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Storage backend constants
const (
	FilesystemStorageBackend = "filesystem"
	AzureStorageBackend      = "azure"
	AwsStorageBackend        = "aws"
)

// StorageSettings selects and configures the backend holding object content.
type StorageSettings struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=filesystem azure aws"`

	// filesystem
	Root string `mapstructure:"root" validate:"required_if=Backend filesystem"`

	// azure
	ConnectionString string `mapstructure:"connection_string" validate:"required_if=Backend azure"`
	ContainerName    string `mapstructure:"container_name" validate:"required_if=Backend azure"`

	// aws
	Bucket          string `mapstructure:"bucket" validate:"required_if=Backend aws"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	Prefix          string `mapstructure:"prefix"`
}

// Validate checks that the settings required by the selected backend are present
func (s *StorageSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}

	return nil
}
