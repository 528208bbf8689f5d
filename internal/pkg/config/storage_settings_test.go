//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *StorageSettings
		expectedError bool
	}{
		{
			name:          "filesystem with root",
			settings:      &StorageSettings{Backend: FilesystemStorageBackend, Root: "/var/lib/hole"},
			expectedError: false,
		},
		{
			name:          "filesystem without root",
			settings:      &StorageSettings{Backend: FilesystemStorageBackend},
			expectedError: true,
		},
		{
			name: "azure with container",
			settings: &StorageSettings{
				Backend:          AzureStorageBackend,
				ConnectionString: "UseDevelopmentStorage=true",
				ContainerName:    "hole",
			},
			expectedError: false,
		},
		{
			name:          "azure without connection string",
			settings:      &StorageSettings{Backend: AzureStorageBackend, ContainerName: "hole"},
			expectedError: true,
		},
		{
			name:          "aws with bucket",
			settings:      &StorageSettings{Backend: AwsStorageBackend, Bucket: "hole", Region: "eu-central-1"},
			expectedError: false,
		},
		{
			name: "aws with static credentials and endpoint",
			settings: &StorageSettings{
				Backend:         AwsStorageBackend,
				Bucket:          "hole",
				Endpoint:        "http://localhost:9000",
				AccessKeyID:     "minio",
				SecretAccessKey: "minio123",
			},
			expectedError: false,
		},
		{
			name:          "aws access key without secret",
			settings:      &StorageSettings{Backend: AwsStorageBackend, Bucket: "hole", AccessKeyID: "minio"},
			expectedError: true,
		},
		{
			name:          "aws without bucket",
			settings:      &StorageSettings{Backend: AwsStorageBackend},
			expectedError: true,
		},
		{
			name:          "gcp is not supported",
			settings:      &StorageSettings{Backend: "gcp"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
