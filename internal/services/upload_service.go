package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"productkart/pkg/imagehost"

	"github.com/google/uuid"
)

// allowedImageExts are the upload extensions the catalog accepts.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadService pushes product images to the configured image host.
type UploadService struct {
	host imagehost.Host
}

// NewUploadService creates a new UploadService.
func NewUploadService(host imagehost.Host) *UploadService {
	return &UploadService{
		host: host,
	}
}

// StoreImage validates the file type and hands the image to the host,
// returning its public URL. The stored name is a fresh UUID so uploads
// can never collide or overwrite each other.
func (s *UploadService) StoreImage(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("images only (jpg, jpeg, png)")
	}

	name := uuid.New().String() + ext
	url, err := s.host.Store(ctx, name, r)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}
