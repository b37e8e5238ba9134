package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore stores snapshots as files below a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

// Put writes the snapshot through a temporary file so readers never see a
// partial page.
func (s *FileStore) Put(ctx context.Context, key string, html []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return writeFailed(key, err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), ".snapshot-*")
	if err != nil {
		return writeFailed(key, err)
	}
	tmp := f.Name()
	if _, err := f.Write(html); err != nil {
		f.Close()
		os.Remove(tmp)
		return writeFailed(key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return writeFailed(key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return writeFailed(key, err)
	}
	return nil
}

// Get reads a snapshot.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(key)
	}
	return data, err
}

// Delete removes a snapshot. Deleting a missing snapshot is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)
