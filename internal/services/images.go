// On-disk artwork store
package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// ImageService downloads artwork into a folder and resolves stored paths.
//
// Stored paths are relative to the folder, e.g. "artists/<mbid>.jpg".
type ImageService struct {
	root string
	api  *APIClient
}

// NewImageService stores images under root.
func NewImageService(root string) *ImageService {
	return &ImageService{root: root, api: NewAPIClient(APIOptions{Name: "images", RateLimit: 5})}
}

// Path resolves a stored relative path to an absolute one.
func (s *ImageService) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Download fetches rawURL and stores it as key plus an extension taken from the content type.
// Returns the stored relative path.
func (s *ImageService) Download(ctx context.Context, rawURL, key string) (string, error) {
	body, err := s.api.Download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	rel := key + imageExtension(http.DetectContentType(body))
	dest := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(dest, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored image.
func (s *ImageService) Remove(rel string) error {
	if err := os.Remove(s.Path(rel)); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
