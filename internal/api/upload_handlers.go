package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

// uploadFolders whitelists the folders clients may upload into.
var uploadFolders = map[string]bool{
	"images":   true,
	"featured": true,
}

func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/uploads",
		Summary:     "Upload image",
		Description: "Stores a base64 data URI image and returns its public URL",
		Tags:        []string{"Uploads"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadImage)
}

// === DTOs ===

// UploadImageInput wraps the upload request for Huma.
type UploadImageInput struct {
	Body struct {
		Image  string `json:"image" validate:"required,datauri" doc:"Base64 data URI"`
		Folder string `json:"folder,omitempty" doc:"Target folder (images, featured)"`
	}
}

// UploadImageOutput wraps the stored image for Huma.
type UploadImageOutput struct {
	Body struct {
		URL      string `json:"url" doc:"Public URL of the stored image"`
		BlurHash string `json:"blurHash,omitempty" doc:"Placeholder hash, empty if not computable"`
	}
}

// === Handlers ===

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*UploadImageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	folder := input.Body.Folder
	if folder == "" {
		folder = "images"
	}
	if !uploadFolders[folder] {
		return nil, domainerrors.Validation("unknown upload folder")
	}

	uploaded, err := s.services.Upload.UploadImage(folder, input.Body.Image)
	if err != nil {
		return nil, err
	}

	resp := &UploadImageOutput{}
	resp.Body.URL = uploaded.URL
	resp.Body.BlurHash = uploaded.BlurHash
	return resp, nil
}
