package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/product-catalog/pkg/logger"
)

var ErrEmptyImage = errors.New("empty image")

// uploadAPI is the subset of the Cloudinary upload API in use
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader stores product images on Cloudinary
type CloudinaryUploader struct {
	api    uploadAPI
	folder string
}

// NewCloudinaryUploader creates an uploader from a cloudinary:// URL
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryUploader{api: &cld.Upload, folder: folder}, nil
}

func newCloudinaryUploader(api uploadAPI, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{api: api, folder: folder}
}

// Upload sends data to Cloudinary and returns the secure URL of the stored image
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte) (string, error) {
	ctx, span := otel.Tracer("image-uploader").Start(ctx, "Cloudinary.Upload")
	defer span.End()
	span.SetAttributes(attribute.Int("image.size", len(data)))

	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	res, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder: u.folder,
	})
	switch {
	case err != nil:
	case res == nil:
		err = errors.New("empty upload response")
	case res.Error.Message != "":
		err = errors.New(res.Error.Message)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx).Err(err).Int("size", len(data)).Msg("Image upload failed")
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	span.SetAttributes(attribute.String("image.public_id", res.PublicID))
	logger.Debug(ctx).Str("public_id", res.PublicID).Msg("Image uploaded")
	return res.SecureURL, nil
}
