package file

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioDriver stores objects in a MinIO (or any S3 compatible) bucket via minio-go.
type MinioDriver struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

type MinioOptions struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	PublicBaseURL   string
}

func NewMinioDriver(opts MinioOptions) (*MinioDriver, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("minio: endpoint is required")
	}
	endpoint := opts.Endpoint
	useSSL := opts.UseSSL
	if u, err := url.Parse(opts.Endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: useSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + endpoint + "/" + opts.Bucket
	}
	return &MinioDriver{client: client, bucket: opts.Bucket, baseURL: baseURL}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (d *MinioDriver) EnsureBucket(ctx context.Context, region string) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{Region: region})
}

func (d *MinioDriver) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := d.client.PutObject(ctx, d.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

func (d *MinioDriver) Delete(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove %s: %w", key, err)
	}
	return nil
}

func (d *MinioDriver) URL(key string) string {
	return joinURL(d.baseURL, key)
}
