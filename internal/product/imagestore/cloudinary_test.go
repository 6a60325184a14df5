package imagestore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploadAPI struct {
	result  *uploader.UploadResult
	err     error
	got     []byte
	gotOpts uploader.UploadParams
}

func (s *stubUploadAPI) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	if r, ok := file.(io.Reader); ok {
		s.got, _ = io.ReadAll(r)
	}
	s.gotOpts = params
	return s.result, s.err
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	stub := &stubUploadAPI{result: &uploader.UploadResult{
		PublicID:  "products/abc",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/products/abc.png",
	}}
	u := newCloudinaryUploader(stub, "products")

	url, err := u.Upload(context.Background(), []byte("png-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/products/abc.png", url)
	assert.Equal(t, []byte("png-bytes"), stub.got)
	assert.Equal(t, "products", stub.gotOpts.Folder)
}

func TestCloudinaryUploader_Errors(t *testing.T) {
	tests := []struct {
		name string
		stub *stubUploadAPI
		data []byte
	}{
		{"empty image", &stubUploadAPI{}, nil},
		{"transport error", &stubUploadAPI{err: errors.New("connection reset")}, []byte("x")},
		{"api error", &stubUploadAPI{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}, []byte("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := newCloudinaryUploader(tt.stub, "products").Upload(context.Background(), tt.data)
			assert.Error(t, err)
			assert.Empty(t, url)
		})
	}
}

func TestDisabledUploader(t *testing.T) {
	_, err := DisabledUploader{}.Upload(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrUploaderNotConfigured)
}
