package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cerrors "github.com/cockroachdb/errors"
	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

const configurationHint = "Update your configuration."

type filesystemStore struct {
	root   string
	logger logger.Logger
}

// NewFilesystemStore creates an ObjectStore keeping each object in a file named by its ID under root.
// The root must be an absolute path to an existing directory the process can read and write.
func NewFilesystemStore(root string, logger logger.Logger) (objects.ObjectStore, error) {
	if err := ValidateRoot(root); err != nil {
		return nil, err
	}

	logger.Info("using filesystem storage", "root", root)
	return &filesystemStore{root: root, logger: logger}, nil
}

// ValidateRoot checks that root is usable as a storage root. Failures carry a configuration hint.
func ValidateRoot(root string) error {
	if root == "" {
		return cerrors.WithHint(cerrors.New("storage root is not configured"), configurationHint)
	}
	if !filepath.IsAbs(root) {
		return cerrors.WithHint(cerrors.Newf("storage root %q is not an absolute path", root), configurationHint)
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cerrors.WithHint(cerrors.Newf("storage root %q does not exist", root), configurationHint)
		}
		return cerrors.WithHint(cerrors.Wrapf(err, "storage root %q is not accessible", root), configurationHint)
	}
	if !info.IsDir() {
		return cerrors.WithHint(cerrors.Newf("storage root %q is not a directory", root), configurationHint)
	}

	if _, err := os.ReadDir(root); err != nil {
		return cerrors.WithHint(cerrors.Wrapf(err, "storage root %q is not readable", root), configurationHint)
	}

	probe, err := os.CreateTemp(root, ".probe-*")
	if err != nil {
		return cerrors.WithHint(cerrors.Wrapf(err, "storage root %q is not writable", root), configurationHint)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return nil
}

func (s *filesystemStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid object id %q", id)
	}
	return filepath.Join(s.root, id), nil
}

// Create writes into a temporary file that replaces the object file on Close.
func (s *filesystemStore) Create(_ context.Context, id string) (objects.ContentWriter, error) {
	target, err := s.path(id)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.root, "."+id+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create content file: %w", err)
	}

	return &fileWriter{file: tmp, target: target}, nil
}

func (s *filesystemStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content of %s: %w", id, err)
	}
	return f, nil
}

func (s *filesystemStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete content of %s: %w", id, err)
	}

	s.logger.Debug("deleted object content", "id", id)
	return nil
}

type fileWriter struct {
	file   *os.File
	target string
	done   bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *fileWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("failed to sync content file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("failed to close content file: %w", err)
	}
	if err := os.Rename(w.file.Name(), w.target); err != nil {
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("failed to commit content file: %w", err)
	}
	return nil
}

func (w *fileWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to discard content file: %w", err)
	}
	return nil
}
