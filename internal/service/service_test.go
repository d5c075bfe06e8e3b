package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// testEnv bundles the services under test sharing one temporary store.
type testEnv struct {
	store    *sqlite.Store
	auth     *AuthService
	sessions *SessionService
	posts    *PostService
	tags     *TagService
	social   *SocialService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tmpDir := t.TempDir()

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokenService, logger)

	return &testEnv{
		store:    s,
		auth:     NewAuthService(s, sessions, logger),
		sessions: sessions,
		posts:    NewPostService(s, logger),
		tags:     NewTagService(s, logger),
		social:   NewSocialService(s, logger),
		users:    NewUserService(s, nil, logger),
	}
}

var testClient = auth.ClientInfo{Name: "test-client", IPAddress: "127.0.0.1"}
