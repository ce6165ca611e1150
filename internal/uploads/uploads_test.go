package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveImageToDisk(t *testing.T) {
	root := t.TempDir()
	service := NewService(NewDiskStorage(root, "/uploads/"))

	result, err := service.Save(context.Background(), fileHeader(t, "Hero.PNG", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Key, "images/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "/uploads/"+result.Key, result.URL)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveRejects(t *testing.T) {
	service := NewService(NewDiskStorage(t.TempDir(), "/uploads"))
	ctx := context.Background()

	_, err := service.Save(ctx, fileHeader(t, "noext", pngHeader))
	assert.ErrorIs(t, err, ErrMissingExtension)

	_, err = service.Save(ctx, fileHeader(t, "tool.exe", pngHeader))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = service.Save(ctx, fileHeader(t, "fake.png", []byte("just some text, not an image")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	big := fileHeader(t, "big.jpg", pngHeader)
	big.Size = maxImageSize + 1
	_, err = service.Save(ctx, big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDiskStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	storage := NewDiskStorage(root, "/uploads")

	url, err := storage.Put(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)
	_, err = os.Stat(filepath.Join(root, "etc", "passwd"))
	assert.NoError(t, err)

	_, err = storage.Put(context.Background(), "/", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestObjectBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", objectBaseURL(S3Options{PublicURL: "https://cdn.example.com/", Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/media", objectBaseURL(S3Options{Endpoint: "http://minio:9000", Bucket: "media"}))
	assert.Equal(t, "https://media.s3.ap-south-1.amazonaws.com", objectBaseURL(S3Options{Bucket: "media", Region: "ap-south-1"}))
}

func TestS3StoragePutsObject(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage, err := NewS3Storage(context.Background(), S3Options{
		Bucket:          "media",
		Region:          "ap-south-1",
		Endpoint:        server.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)

	url, err := storage.Put(context.Background(), "images/a.png", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/media/images/a.png", url)
	assert.Equal(t, "/media/images/a.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.NotEmpty(t, gotBody)
}
