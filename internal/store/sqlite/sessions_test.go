package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func makeTestSession(id, userID string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: "hash-" + id,
		ExpiresAt:        now.Add(24 * time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "203.0.113.7",
		ClientName:       "inkwell-web",
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	sess := makeTestSession("sess1", u.ID)

	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if got.UserID != u.ID {
		t.Errorf("UserID: got %q, want %q", got.UserID, u.ID)
	}
	if got.RefreshTokenHash != sess.RefreshTokenHash {
		t.Errorf("RefreshTokenHash: got %q", got.RefreshTokenHash)
	}
	if got.ClientName != "inkwell-web" {
		t.Errorf("ClientName: got %q", got.ClientName)
	}

	// Rotate the refresh token.
	got.RefreshTokenHash = "rotated"
	got.Touch()
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	rotated, err := s.GetSessionByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if rotated.RefreshTokenHash != "rotated" {
		t.Errorf("RefreshTokenHash after rotation: got %q", rotated.RefreshTokenHash)
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSessionByID(ctx, sess.ID); err != store.ErrNotFound {
		t.Errorf("GetSessionByID after delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")

	expired := makeTestSession("sess1", u.ID)
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	live := makeTestSession("sess2", u.ID)

	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	removed, err := s.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	sessions, err := s.ListSessionsForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListSessionsForUser: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "sess2" {
		t.Errorf("sessions: got %+v", sessions)
	}
}
