package imagehost

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Host is the boundary to the image hosting provider. The storefront
// only ever hands an image over and gets back a public URL; provider
// internals stay behind this interface.
type Host interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskHost stores images on the local filesystem and serves them under
// a static URL prefix. It stands in for a CDN-backed implementation.
type DiskHost struct {
	dir       string
	urlPrefix string
}

// NewDiskHost creates a DiskHost writing into dir and returning URLs
// under urlPrefix (e.g. "/uploads").
func NewDiskHost(dir, urlPrefix string) (*DiskHost, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskHost{dir: dir, urlPrefix: urlPrefix}, nil
}

// Store writes the image to disk and returns its public URL.
func (h *DiskHost) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The caller controls the filename; strip any path component so an
	// uploaded name cannot escape the upload directory.
	filename = filepath.Base(filename)

	f, err := os.Create(filepath.Join(h.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create image file %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write image file %s: %w", filename, err)
	}
	return h.urlPrefix + "/" + filename, nil
}
