// Package storage keeps uploaded product images, report screenshots and
// profile pictures. Two backends exist: the local filesystem, served by the
// API under /uploads, and any S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"uttianguis/internal/config"
	apperrors "uttianguis/internal/errors"
)

// Folders used for uploaded objects.
const (
	FolderProducts = "products"
	FolderReports  = "reports"
	FolderProfiles = "profiles"
)

// LocalURLPrefix is where the local backend's files are served.
const LocalURLPrefix = "/uploads/"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Object is a file ready to be stored.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store persists objects and returns the public URL they are reachable at.
type Store interface {
	Save(ctx context.Context, obj Object) (string, error)
	// Delete removes the object behind a URL previously returned by Save.
	// URLs the store does not own are ignored.
	Delete(ctx context.Context, url string) error
}

// NewImageObject sniffs data and builds an object under folder with a random
// name. Anything that is not a jpeg, png, gif or webp image is a validation error.
func NewImageObject(folder string, data []byte) (Object, error) {
	if len(data) == 0 {
		return Object{}, apperrors.Validation("file is empty")
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return Object{}, apperrors.Validation(fmt.Sprintf("file must be an image, got %s", mtype.String()))
	}
	return Object{
		Key:         path.Join(folder, uuid.NewString()+mtype.Extension()),
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
