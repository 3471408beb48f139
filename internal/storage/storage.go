package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"campus-lostfound/pkg/apierror"
)

// ImageStore is a flat, rooted directory of item photos. Names are single
// path segments; anything that could escape the root is rejected before it
// touches the filesystem.
type ImageStore struct {
	rootAbs string
}

func NewImageStore(root string) (*ImageStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("image root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve image root: %w", err)
	}
	if err := os.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}

	return &ImageStore{rootAbs: rootAbs}, nil
}

func (s *ImageStore) RootAbs() string {
	return s.rootAbs
}

// Resolve maps a stored image name to an absolute path under the root.
func (s *ImageStore) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierror.BadRequest("image name is required", "")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return "", apierror.New("BAD_REQUEST", "invalid image name", name, http.StatusBadRequest)
	}
	return filepath.Join(s.rootAbs, name), nil
}

func (s *ImageStore) Save(name string, data []byte) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

func (s *ImageStore) Open(name string) (*os.File, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apierror.NotFound("image not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

func (s *ImageStore) Remove(name string) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
