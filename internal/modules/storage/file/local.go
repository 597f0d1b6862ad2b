package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// LocalDriver writes objects below a directory served by the app under baseURL.
type LocalDriver struct {
	dir     string
	baseURL string
}

func NewLocalDriver(dir, baseURL string) (*LocalDriver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = "/static"
	}
	return &LocalDriver{dir: dir, baseURL: baseURL}, nil
}

func (d *LocalDriver) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return err
	}
	return f.Close()
}

func (d *LocalDriver) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (d *LocalDriver) URL(key string) string {
	return joinURL(d.baseURL, key)
}

// Dir returns the directory the app should serve at the driver's base URL.
func (d *LocalDriver) Dir() string { return d.dir }
