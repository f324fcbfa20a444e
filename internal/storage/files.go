package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage persists an uploaded file and returns the relative path the
// application stores. Only the path string is kept in the database.
type FileStorage interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(relativePath string) error
}

// LocalStorage writes files under a base directory on local disk.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// Save writes the file under a uuid-prefixed name and returns its relative path.
func (s *LocalStorage) Save(filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, "profile-images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join("profile-images", name)), nil
}

// Remove deletes a previously saved file. Missing files are not an error.
func (s *LocalStorage) Remove(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relativePath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
