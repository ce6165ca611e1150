package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStorage writes objects below a root directory that the HTTP server
// exposes at urlPrefix.
type DiskStorage struct {
	root      string
	urlPrefix string
}

func NewDiskStorage(root, urlPrefix string) *DiskStorage {
	return &DiskStorage{
		root:      filepath.Clean(root),
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

func (d *DiskStorage) Root() string {
	return d.root
}

func (d *DiskStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	target, cleanKey, err := d.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return d.urlPrefix + "/" + cleanKey, nil
}

// resolve maps key to a path that is guaranteed to sit inside root.
func (d *DiskStorage) resolve(key string) (string, string, error) {
	cleanKey := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if cleanKey == "" {
		return "", "", fmt.Errorf("empty upload key")
	}

	target := filepath.Clean(filepath.Join(d.root, filepath.FromSlash(cleanKey)))
	if !strings.HasPrefix(target, d.root+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("refusing to write outside upload root: %s", key)
	}
	return target, cleanKey, nil
}
