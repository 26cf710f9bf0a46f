// Package storage keeps uploaded images and documents on local disk or in Cloudinary.
package storage

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/config"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Store persists uploads and returns the path or URL recorded on the owning row.
type Store interface {
	Save(ctx context.Context, folder string, up Upload) (string, error)
	Delete(ctx context.Context, location string) error
}

const (
	MaxImageSize    = 5 << 20
	MaxDocumentSize = 10 << 20
)

var (
	ImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	DocumentTypes = map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/png":       true,
	}
)

// Check rejects uploads of the wrong type or over maxSize bytes.
func Check(up Upload, allowed map[string]bool, maxSize int64) error {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	if !allowed[contentType] {
		return errors.WithType(errors.Errorf("unsupported file type %q", up.ContentType), errors.BadRequest)
	}
	if maxSize > 0 && up.Size > maxSize {
		return errors.WithType(errors.Errorf("file exceeds %d MB limit", maxSize>>20), errors.BadRequest)
	}
	return nil
}

// FromFileHeader opens a multipart file. The caller closes the returned closer.
func FromFileHeader(fh *multipart.FileHeader) (Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, nil, errors.Annotate(err, "failed to open upload")
	}
	return Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

// New picks the store named by STORAGE_DRIVER.
func New(cfg config.StorageConfig, cld config.CloudinaryConfig) (Store, error) {
	switch cfg.Driver {
	case "cloudinary":
		return NewCloudinaryStore(cld)
	case "", "local":
		return NewLocalStore(cfg.UploadDir)
	}
	return nil, errors.NotValidf("storage driver %q", cfg.Driver)
}
