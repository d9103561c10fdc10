package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/foodgram/backend/internal/metrics"
)

// FSStore writes images below Dir and serves them from BaseURL.
type FSStore struct {
	dir     string
	baseURL string
}

// NewFSStore returns a store rooted at dir. The directory is created if needed.
func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "recipes"), 0o755); err != nil {
		return nil, fmt.Errorf("imagestore.NewFSStore: %w", err)
	}
	return &FSStore{dir: dir, baseURL: baseURL}, nil
}

// Dir is the root that the /media handler serves from.
func (s *FSStore) Dir() string { return s.dir }

// Save writes img if an object with the same content does not exist yet.
func (s *FSStore) Save(_ context.Context, img Image) (string, error) {
	key := img.Key()
	dst := filepath.Join(s.dir, filepath.FromSlash(key))

	if _, err := os.Stat(dst); err == nil {
		return joinURL(s.baseURL, key), nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("imagestore.FSStore.Save: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("imagestore.FSStore.Save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("imagestore.FSStore.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("imagestore.FSStore.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("imagestore.FSStore.Save: rename: %w", err)
	}

	metrics.ImageBytesStored.WithLabelValues("fs").Add(float64(len(img.Data)))
	return joinURL(s.baseURL, key), nil
}
