package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := setupTestServer(t)

	token, user := ts.registerUser(t, "ada@example.com", "Ada Lovelace")
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEmpty(t, user.Username)

	resp := ts.api.Get("/api/v1/auth/me", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, user.ID, envelope.Data.ID)

	// Login with the same credentials.
	loginResp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusOK, loginResp.Code)
}

func TestMe_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "ada@example.com", "Ada")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": "not the password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "ada@example.com", "Ada")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "ada@example.com",
		"password": "correct horse battery",
		"name":     "Ada Again",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRefreshFlow(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "ada@example.com",
		"password": "correct horse battery",
		"name":     "Ada",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var reg testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reg))

	refreshResp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": reg.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refreshResp.Code, refreshResp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(refreshResp.Body.Bytes(), &refreshed))
	assert.NotEqual(t, reg.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The rotated-out token is rejected.
	stale := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": reg.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, stale.Code)
}
