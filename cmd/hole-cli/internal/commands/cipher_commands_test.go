//go:build unit
// +build unit

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/d1s-utils/hole/internal/domain/objects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherCommandHandler_RoundTrip(t *testing.T) {
	handler, err := NewCipherCommandHandler()
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	encrypted := filepath.Join(dir, "plain.txt.enc")
	decrypted := filepath.Join(dir, "decrypted.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello hole"), 0600))

	require.NoError(t, handler.Encrypt(plain, encrypted, "pa55"))

	ciphertext, err := os.ReadFile(encrypted)
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "hello hole")

	require.NoError(t, handler.Decrypt(encrypted, decrypted, "pa55"))
	content, err := os.ReadFile(decrypted)
	require.NoError(t, err)
	assert.Equal(t, "hello hole", string(content))
}

func TestCipherCommandHandler_WrongPasswordRemovesOutput(t *testing.T) {
	handler, err := NewCipherCommandHandler()
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	encrypted := filepath.Join(dir, "plain.txt.enc")
	decrypted := filepath.Join(dir, "decrypted.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello hole"), 0600))
	require.NoError(t, handler.Encrypt(plain, encrypted, "pa55"))

	err = handler.Decrypt(encrypted, decrypted, "wrong")
	require.ErrorIs(t, err, objects.ErrInvalidEncryptionKey)
	assert.NoFileExists(t, decrypted)
}

func TestCipherCommandHandler_MissingInput(t *testing.T) {
	handler, err := NewCipherCommandHandler()
	require.NoError(t, err)

	dir := t.TempDir()
	err = handler.Encrypt(filepath.Join(dir, "absent"), filepath.Join(dir, "out"), "pa55")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out"))
}

func TestCipherCommandHandler_RejectsSameFile(t *testing.T) {
	handler, err := NewCipherCommandHandler()
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello hole"), 0600))

	for _, out := range []string{plain, filepath.Join(dir, ".", "sub", "..", "plain.txt")} {
		err = handler.Encrypt(plain, out, "pa55")
		require.ErrorIs(t, err, ErrSameFile)

		err = handler.Decrypt(plain, out, "pa55")
		require.ErrorIs(t, err, ErrSameFile)
	}

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(plain, link))
	require.ErrorIs(t, handler.Encrypt(plain, link, "pa55"), ErrSameFile)

	content, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "hello hole", string(content))
}
