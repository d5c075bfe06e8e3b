package auth

import (
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash format: %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}

	ok, err = VerifyPassword("not-a-hash", "anything")
	if err != nil || ok {
		t.Errorf("malformed hash: got (%v, %v), want (false, nil)", ok, err)
	}
}

func newTestTokenService(t *testing.T, accessDuration time.Duration) *TokenService {
	t.Helper()
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	svc, err := NewTokenService(key, accessDuration, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	user := &domain.User{
		ID:       "user_abc",
		Email:    "jo@example.com",
		Username: "jo_writer",
	}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID: got %q, want %q", claims.UserID, user.ID)
	}
	if claims.Username != user.Username {
		t.Errorf("Username: got %q, want %q", claims.Username, user.Username)
	}
	if claims.Subject != user.ID {
		t.Errorf("Subject: got %q, want %q", claims.Subject, user.ID)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user_abc"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	other := newTestTokenService(t, time.Hour)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user_abc"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("token accepted under a different key")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty refresh token")
	}

	hash := HashRefreshToken(token)
	if hash == token {
		t.Error("hash must differ from the token")
	}
	if hash != HashRefreshToken(token) {
		t.Error("hash must be deterministic")
	}

	other, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if HashRefreshToken(other) == hash {
		t.Error("distinct tokens must not collide")
	}
}
