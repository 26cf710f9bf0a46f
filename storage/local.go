package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// PublicPrefix is the URL path under which local uploads are served.
const PublicPrefix = "/uploads"

// LocalStore writes uploads below a directory served at PublicPrefix.
type LocalStore struct {
	dir string
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Annotatef(err, "failed to create upload directory %s", dir)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, folder string, up Upload) (string, error) {
	folder = sanitizeFolder(folder)
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return "", errors.Trace(err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(up.Filename))
	target := filepath.Join(s.dir, folder, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", errors.Annotate(err, "failed to create file")
	}

	_, err = io.Copy(dst, up.Reader)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Never leave a truncated upload behind.
		_ = os.Remove(target)
		return "", errors.Annotate(err, "failed to write file")
	}
	return path.Join(PublicPrefix, folder, name), nil
}

// Delete removes a file previously returned by Save. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, location string) error {
	rel := strings.TrimPrefix(path.Clean("/"+location), PublicPrefix+"/")
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return errors.NotValidf("upload path %q", location)
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	return nil
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "misc"
	}
	return strings.ReplaceAll(folder, "..", "")
}
