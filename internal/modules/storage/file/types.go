package file

import (
	"context"
	"io"
)

// Object locates a stored file.
type Object struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Driver stores objects under slash-separated keys.
type Driver interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key without contacting the backend.
	URL(key string) string
}

// urlResponse is the body of GET /files/url.
type urlResponse struct {
	URL string `json:"url"`
}
