package file

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/handywriterz/core/internal/config"
	"go.uber.org/zap"
)

// Service uploads, deletes and resolves stored files.
type Service struct {
	driver  Driver
	maxSize int64
	log     *zap.Logger
	now     func() time.Time
}

func NewService(driver Driver, maxSizeMB int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{driver: driver, maxSize: int64(maxSizeMB) * 1024 * 1024, log: log, now: time.Now}
}

// NewDriver builds the driver selected by cfg. staticDir backs the local driver.
func NewDriver(cfg config.StorageConfig, staticDir string) (Driver, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinioDriver(MinioOptions{
			Endpoint:        cfg.Endpoint,
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			UseSSL:          cfg.UseSSL,
			PublicBaseURL:   cfg.PublicBaseURL,
		})
	case "s3":
		return NewS3Driver(S3Options{
			Endpoint:        cfg.Endpoint,
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PathStyle:       cfg.PathStyle,
			PublicBaseURL:   cfg.PublicBaseURL,
		})
	case "local", "":
		return NewLocalDriver(staticDir, cfg.PublicBaseURL)
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}

// Driver returns the underlying storage driver.
func (s *Service) Driver() Driver { return s.driver }

// Upload stores body under folder (the post's service, or "general") and returns its location.
func (s *Service) Upload(ctx context.Context, folder, name string, body io.Reader, size int64, contentType string) (*Object, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return nil, ErrTooLarge
	}
	key, err := buildObjectKey(folder, name, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.driver.Put(ctx, key, body, size, contentTypeFor(name, contentType)); err != nil {
		s.log.Error("upload failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &Object{URL: s.driver.URL(key), Path: key}, nil
}

// Delete removes the object at path.
func (s *Service) Delete(ctx context.Context, path string) error {
	key, err := cleanKey(path)
	if err != nil {
		return err
	}
	if err := s.driver.Delete(ctx, key); err != nil {
		s.log.Error("delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// PublicURL returns the public URL of path.
func (s *Service) PublicURL(path string) (string, error) {
	key, err := cleanKey(path)
	if err != nil {
		return "", err
	}
	return s.driver.URL(key), nil
}
