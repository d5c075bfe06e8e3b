package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/media/images"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Success bool   `json:"success"`
}

// testServer bundles the server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server backed by temporary storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	uploads, err := images.NewStorage(filepath.Join(tmpDir, "uploads"), "http://localhost:8080")
	require.NoError(t, err)

	sessions := service.NewSessionService(st, tokens, logger)
	uploadSvc := service.NewUploadService(uploads, logger)

	services := &Services{
		Auth:    service.NewAuthService(st, sessions, logger),
		Session: sessions,
		Post:    service.NewPostService(st, logger),
		Tag:     service.NewTagService(st, logger),
		Social:  service.NewSocialService(st, logger),
		User:    service.NewUserService(st, uploadSvc, logger),
		Upload:  uploadSvc,
		// Photo left nil; no Unsplash key in tests.
		Search: nil,
	}

	server := NewServer(st, services, tokens, uploads, logger)
	t.Cleanup(server.Close)

	return &testServer{Server: server, api: humatest.Wrap(t, server.api)}
}

// registerUser creates an account through the API and returns its token
// and the response body.
func (ts *testServer) registerUser(t *testing.T, email, name string) (token string, user UserResponse) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "correct horse battery",
		"name":     name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.AccessToken, envelope.Data.User
}

// authHeader formats a bearer header value for humatest calls.
func authHeader(token string) string {
	return "Authorization: Bearer " + token
}
