package service

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/media/images"
)

// maxUploadBytes caps decoded image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// imageExtensions maps accepted data-URI media types to file extensions.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores client-uploaded images sent as base64 data URIs.
type UploadService struct {
	storage *images.Storage
	logger  *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(storage *images.Storage, logger *slog.Logger) *UploadService {
	return &UploadService{storage: storage, logger: logger}
}

// UploadedImage describes a stored image.
type UploadedImage struct {
	URL      string `json:"url"`
	BlurHash string `json:"blurHash,omitempty"`
}

// UploadImage decodes a data URI, stores the image under the given folder,
// and computes a blur placeholder for it. Only common raster formats are
// accepted.
func (s *UploadService) UploadImage(folder, dataURI string) (*UploadedImage, error) {
	mediaType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	ext, ok := imageExtensions[mediaType]
	if !ok {
		return nil, domainerrors.Validation(fmt.Sprintf("unsupported image type %q", mediaType))
	}
	if len(data) > maxUploadBytes {
		return nil, domainerrors.Validation("image exceeds the 10 MB upload limit")
	}

	url, err := s.storage.Save(folder, ext, data)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	blurHash, err := images.ComputeBlurHash(data)
	if err != nil {
		// The placeholder is cosmetic; a decode failure should not fail
		// the upload.
		s.logger.Warn("blurhash computation failed", "url", url, "error", err)
		blurHash = ""
	}

	s.logger.Info("image uploaded", "folder", folder, "bytes", len(data), "url", url)
	return &UploadedImage{URL: url, BlurHash: blurHash}, nil
}

// Delete removes a stored image by its public URL. URLs outside our
// storage are ignored.
func (s *UploadService) Delete(url string) error {
	return s.storage.DeleteByURL(url)
}

// decodeDataURI splits a "data:<type>;base64,<payload>" string into the
// media type and decoded bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	const prefix = "data:"
	if !strings.HasPrefix(uri, prefix) {
		return "", nil, domainerrors.Validation("expected a data URI")
	}

	meta, payload, ok := strings.Cut(uri[len(prefix):], ",")
	if !ok {
		return "", nil, domainerrors.Validation("malformed data URI")
	}

	mediaType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, domainerrors.Validation("data URI must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, domainerrors.Validation("invalid base64 payload").WithCause(err)
	}
	return strings.ToLower(strings.TrimSpace(mediaType)), data, nil
}
