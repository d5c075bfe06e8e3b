// Package images provides upload image storage, placeholders, and serving paths.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// urlPrefix is the public path under which stored uploads are served.
const urlPrefix = "/uploads/"

// Storage manages uploaded image files on disk and their public URLs.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	baseURL  string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath. Stored files are exposed
// as {baseURL}/uploads/{folder}/{file}.
func NewStorage(basePath, baseURL string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &Storage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save stores image data under the given folder with a random filename and
// the given extension (".png", ".webp", ...). Returns the public URL of the
// stored file.
func (s *Storage) Save(folder, ext string, data []byte) (string, error) {
	if folder == "" {
		return "", fmt.Errorf("folder cannot be empty")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.basePath, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", folder, err)
	}

	filename := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return s.baseURL + urlPrefix + folder + "/" + filename, nil
}

// Open returns the filesystem path for a stored file, rejecting traversal
// outside the uploads directory.
func (s *Storage) Open(folder, filename string) (string, error) {
	path := filepath.Join(s.basePath, folder, filename)

	cleaned, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes uploads directory")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

// Owns reports whether the URL points at a file managed by this storage.
// External URLs (Unsplash and friends) are not ours to delete.
func (s *Storage) Owns(url string) bool {
	return strings.HasPrefix(url, s.baseURL+urlPrefix)
}

// DeleteByURL removes the stored file behind a public URL previously
// returned by Save. URLs not managed by this storage and files already
// gone are ignored.
func (s *Storage) DeleteByURL(url string) error {
	if !s.Owns(url) {
		return nil
	}

	rel := strings.TrimPrefix(url, s.baseURL+urlPrefix)
	folder, filename, found := strings.Cut(rel, "/")
	if !found || strings.Contains(filename, "/") || strings.Contains(rel, "..") {
		return fmt.Errorf("malformed upload URL: %s", url)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.basePath, folder, filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}
