package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes objects below a directory that the router serves at /uploads.
type Local struct {
	basePath string
}

// NewLocal creates the upload directory when missing.
func NewLocal(basePath string) (*Local, error) {
	if basePath == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

// Dir returns the directory files are written to.
func (s *Local) Dir() string {
	return s.basePath
}

func (s *Local) Save(ctx context.Context, obj Object) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, obj.Data, 0640); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	return LocalURLPrefix + obj.Key, nil
}

func (s *Local) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, LocalURLPrefix)
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
