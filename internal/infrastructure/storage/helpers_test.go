//go:build unit || integration
// +build unit integration

package storage

import (
	"context"
	"io"
	"testing"

	"github.com/d1s-utils/hole/internal/domain/objects"

	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, store objects.ObjectStore, id string, content []byte) {
	t.Helper()
	w, err := store.Create(context.Background(), id)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readContent(t *testing.T, store objects.ObjectStore, id string) []byte {
	t.Helper()
	r, err := store.Open(context.Background(), id)
	require.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	return content
}
