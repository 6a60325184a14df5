package imagestore

import (
	"context"
	"errors"
)

var ErrUploaderNotConfigured = errors.New("image uploader not configured")

// DisabledUploader rejects every upload. Used when no Cloudinary account is
// configured, so products without images can still be managed.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, []byte) (string, error) {
	return "", ErrUploaderNotConfigured
}
