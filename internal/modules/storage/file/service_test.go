package file

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalService(t *testing.T, maxMB int) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	driver, err := NewLocalDriver(dir, "https://cdn.example.com/static")
	require.NoError(t, err)
	svc := NewService(driver, maxMB, nil)
	svc.now = func() time.Time { return time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC) }
	return svc, dir
}

func TestUploadScopesKeyToFolder(t *testing.T) {
	ctx := context.Background()
	svc, dir := newLocalService(t, 1)

	obj, err := svc.Upload(ctx, "Crypto", "Chart.PNG", strings.NewReader("png"), 3, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Path, "crypto/2024/07/"), obj.Path)
	assert.True(t, strings.HasSuffix(obj.Path, ".png"), obj.Path)
	assert.Equal(t, "https://cdn.example.com/static/"+obj.Path, obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.Path)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	general, err := svc.Upload(ctx, "", "a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(general.Path, "general/"))

	url, err := svc.PublicURL(obj.Path)
	require.NoError(t, err)
	assert.Equal(t, obj.URL, url)

	require.NoError(t, svc.Delete(ctx, obj.Path))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLocalService(t, 1)

	_, err := svc.Upload(ctx, "crypto", "run.exe", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, "crypto", "big.png", strings.NewReader("x"), 2*1024*1024, "")
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.ErrorIs(t, svc.Delete(ctx, "../etc/passwd"), ErrInvalidPath)
	_, err = svc.PublicURL("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNewDriverSelectsBackend(t *testing.T) {
	d, err := NewDriver(config.StorageConfig{Driver: "local"}, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &LocalDriver{}, d)

	d, err = NewDriver(config.StorageConfig{Driver: "minio", Endpoint: "http://localhost:9000", Bucket: "media"}, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/a/b.png", d.URL("a/b.png"))

	d, err = NewDriver(config.StorageConfig{Driver: "s3", Bucket: "media", Region: "eu-west-1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/a.png", d.URL("a.png"))

	_, err = NewDriver(config.StorageConfig{Driver: "ftp"}, "")
	assert.Error(t, err)
}

func TestUploadHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newLocalService(t, 1)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.webp")
	require.NoError(t, err)
	_, _ = part.Write([]byte("webp"))
	require.NoError(t, mw.WriteField("folder", "writing"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var obj Object
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &obj))
	assert.True(t, strings.HasPrefix(obj.Path, "writing/"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/files/url?path="+obj.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), obj.URL)
}
