package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore keeps archives on disk under baseDir/<container>/<name>.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates baseDir if needed.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Close is a no-op.
func (l *LocalStore) Close() error { return nil }

func (l *LocalStore) Put(_ context.Context, container, name string, data []byte) error {
	dir := filepath.Join(l.baseDir, container)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ListAll returns the object names in container, sorted. A missing container is empty.
func (l *LocalStore) ListAll(_ context.Context, container string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.baseDir, container))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", container, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (l *LocalStore) DeleteMany(ctx context.Context, container string, keys []string) error {
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(l.baseDir, container, filepath.Base(k))
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	return nil
}
