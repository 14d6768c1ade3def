// Package archive stores rendered parameter snapshots in blob storage. A
// snapshot is taken after every successfully applied override, so the
// configuration active at any point in the past can be re-applied verbatim.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for parameter snapshots.
type StorageClient interface {
	PutSnapshot(ctx context.Context, profile, snapshotID string, data []byte) error
	GetSnapshot(ctx context.Context, profile, snapshotID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(profile, id string) string {
	return filepath.Join(s.BaseDir, profile, "params", id+".txt")
}

// PutSnapshot stores a rendered snapshot.
func (s *LocalStorage) PutSnapshot(ctx context.Context, profile, snapshotID string, data []byte) error {
	path := s.path(profile, snapshotID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetSnapshot retrieves a rendered snapshot.
func (s *LocalStorage) GetSnapshot(ctx context.Context, profile, snapshotID string) ([]byte, error) {
	return os.ReadFile(s.path(profile, snapshotID))
}
