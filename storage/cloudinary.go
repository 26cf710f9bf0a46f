package storage

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/config"
)

// CloudinaryStore uploads files to Cloudinary and records the secure URL.
type CloudinaryStore struct {
	cld          *cloudinary.Cloudinary
	uploadPreset string
}

var _ Store = (*CloudinaryStore)(nil)

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errors.Annotate(err, "failed to initialise cloudinary")
	}
	return &CloudinaryStore{cld: cld, uploadPreset: cfg.UploadPreset}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, folder string, up Upload) (string, error) {
	params := uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       sanitizeFolder(folder),
		UploadPreset: s.uploadPreset,
		ResourceType: "auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, up.Reader, params)
	if err != nil {
		return "", errors.Annotate(err, "failed to upload to cloudinary")
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, location string) error {
	resourceType, publicID, err := parseAssetURL(location)
	if err != nil {
		return err
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return errors.Annotatef(err, "failed to delete %s", publicID)
	}
	if resp.Error.Message != "" {
		return errors.Errorf("cloudinary destroy failed: %s", resp.Error.Message)
	}
	return nil
}

// parseAssetURL extracts resource type and public id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1712/categories/abc.png.
func parseAssetURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", errors.NotValidf("asset url %q", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 1; i < len(parts)-1; i++ {
		if parts[i] != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && strings.HasPrefix(rest[0], "v") && isDigits(rest[0][1:]) {
			rest = rest[1:]
		}
		publicID := strings.Join(rest, "/")
		publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
		return parts[i-1], publicID, nil
	}
	return "", "", errors.NotValidf("asset url %q", raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
