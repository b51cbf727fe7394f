package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastcart-api/internal/app"
)

type fakeUploadAPI struct {
	uploadParams uploader.UploadParams
	uploadRes    *uploader.UploadResult
	uploadErr    error

	destroyed  []string
	destroyRes *uploader.DestroyResult
	destroyErr error
}

func (f *fakeUploadAPI) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploadParams = params
	return f.uploadRes, f.uploadErr
}

func (f *fakeUploadAPI) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = append(f.destroyed, params.PublicID)
	return f.destroyRes, f.destroyErr
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		cloud  string
		wantID string
		wantOK bool
	}{
		{
			name:   "versioned",
			url:    "https://res.cloudinary.com/demo/image/upload/v1712345678/fastcart/abc123.jpg",
			cloud:  "demo",
			wantID: "fastcart/abc123",
			wantOK: true,
		},
		{
			name:   "transformation before version",
			url:    "https://res.cloudinary.com/demo/image/upload/c_limit,h_500,w_500/v1712345678/fastcart/abc123.png",
			cloud:  "demo",
			wantID: "fastcart/abc123",
			wantOK: true,
		},
		{
			name:   "no version",
			url:    "https://res.cloudinary.com/demo/image/upload/fastcart/abc.webp",
			wantID: "fastcart/abc",
			wantOK: true,
		},
		{
			name:   "transformation without version",
			url:    "https://res.cloudinary.com/demo/image/upload/c_limit,w_500/fastcart/abc.png",
			wantID: "fastcart/abc",
			wantOK: true,
		},
		{
			name:   "dotted name keeps inner dots",
			url:    "http://res.cloudinary.com/demo/image/upload/v1/fastcart/my.photo.jpg",
			wantID: "fastcart/my.photo",
			wantOK: true,
		},
		{
			name:   "underscored folder is part of the id",
			url:    "https://res.cloudinary.com/demo/image/upload/my_folder/abc.jpg",
			cloud:  "demo",
			wantID: "my_folder/abc",
			wantOK: true,
		},
		{
			name:   "version-like folder inside the id",
			url:    "https://res.cloudinary.com/demo/image/upload/fastcart/v2/abc.jpg",
			cloud:  "demo",
			wantID: "fastcart/v2/abc",
			wantOK: true,
		},
		{
			name:   "chained transformations then version",
			url:    "https://res.cloudinary.com/demo/image/upload/c_fill,w_200/q_auto,f_auto/v3/fastcart/abc.jpg",
			cloud:  "demo",
			wantID: "fastcart/abc",
			wantOK: true,
		},
		{
			name:   "version-named image at the root",
			url:    "https://res.cloudinary.com/demo/image/upload/v12.png",
			cloud:  "demo",
			wantID: "v12",
			wantOK: true,
		},
		{name: "external host", url: "https://example.com/image/upload/v1/a.png"},
		{name: "other cloud", url: "https://res.cloudinary.com/other/image/upload/v1/a.png", cloud: "demo"},
		{name: "no upload segment", url: "https://res.cloudinary.com/demo/image/fetch/a.png"},
		{name: "nothing after upload", url: "https://res.cloudinary.com/demo/image/upload"},
		{name: "garbage", url: "::not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := publicIDFromURL(tt.url, tt.cloud)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestClient_Upload(t *testing.T) {
	fake := &fakeUploadAPI{uploadRes: &uploader.UploadResult{
		PublicID:  "fastcart/abc",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/fastcart/abc.png",
	}}
	c := &Client{api: fake, cloudName: "demo", folder: "fastcart"}

	got, err := c.Upload(context.Background(), app.MediaFile{Filename: "a.png", Body: bytes.NewReader([]byte("x"))})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/fastcart/abc.png", got)
	assert.Equal(t, "fastcart", fake.uploadParams.Folder)
	assert.Equal(t, uploadTransformation, fake.uploadParams.Transformation)
}

func TestClient_Upload_RejectedByAPI(t *testing.T) {
	fake := &fakeUploadAPI{uploadRes: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}
	c := &Client{api: fake, folder: "fastcart"}

	_, err := c.Upload(context.Background(), app.MediaFile{Body: bytes.NewReader(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestClient_Delete(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		fake := &fakeUploadAPI{destroyRes: &uploader.DestroyResult{Result: "ok"}}
		c := &Client{api: fake}
		require.NoError(t, c.Delete(context.Background(), "fastcart/abc"))
		assert.Equal(t, []string{"fastcart/abc"}, fake.destroyed)
	})

	t.Run("not found", func(t *testing.T) {
		fake := &fakeUploadAPI{destroyRes: &uploader.DestroyResult{Result: "not found"}}
		c := &Client{api: fake}
		err := c.Delete(context.Background(), "fastcart/gone")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("transport error", func(t *testing.T) {
		fake := &fakeUploadAPI{destroyErr: errors.New("timeout")}
		c := &Client{api: fake}
		require.Error(t, c.Delete(context.Background(), "fastcart/abc"))
	})
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("demo", "", "secret", "fastcart")
	require.Error(t, err)
}

func TestIsTransformation(t *testing.T) {
	assert.True(t, isTransformation("c_limit,h_500,w_500"))
	assert.True(t, isTransformation("q_auto"))
	assert.False(t, isTransformation("my_folder"))
	assert.False(t, isTransformation("c_limit,my_folder"))
	assert.False(t, isTransformation("fastcart"))
	assert.False(t, isTransformation("w_"))
}
