package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFile writes content to name inside a per-test temporary directory and returns its path.
func CreateTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

// CreateStorageRoot returns an absolute, writable directory usable as a filesystem storage root.
func CreateStorageRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	return root
}
