package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("u1")
	u.AvatarColor = "#1a7f5c"
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Email != u.Email {
		t.Errorf("Email: got %q, want %q", got.Email, u.Email)
	}
	if got.Username != u.Username {
		t.Errorf("Username: got %q, want %q", got.Username, u.Username)
	}
	if got.AvatarColor != "#1a7f5c" {
		t.Errorf("AvatarColor: got %q", got.AvatarColor)
	}
	if got.CreatedAt.Unix() != u.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, u.CreatedAt)
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")

	sameEmail := makeTestUser("u2")
	sameEmail.Email = "u1@example.com"
	if err := s.CreateUser(ctx, sameEmail); err != store.ErrAlreadyExists {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}

	sameUsername := makeTestUser("u3")
	sameUsername.Username = "user_u1"
	if err := s.CreateUser(ctx, sameUsername); err != store.ErrAlreadyExists {
		t.Errorf("duplicate username: got %v, want ErrAlreadyExists", err)
	}
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")

	byEmail, err := s.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("ID: got %q, want %q", byEmail.ID, u.ID)
	}

	byUsername, err := s.GetUserByUsername(ctx, u.Username)
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byUsername.ID != u.ID {
		t.Errorf("ID: got %q, want %q", byUsername.ID, u.ID)
	}

	if _, err := s.GetUserByEmail(ctx, "missing@example.com"); err != store.ErrNotFound {
		t.Errorf("missing email: got %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	u.Name = "Renamed"
	u.AvatarURL = "https://img.example.com/avatar.png"
	u.Touch()

	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.AvatarURL != u.AvatarURL {
		t.Errorf("AvatarURL: got %q", got.AvatarURL)
	}

	missing := makeTestUser("missing")
	if err := s.UpdateUser(ctx, missing); err != store.ErrNotFound {
		t.Errorf("update missing user: got %v, want ErrNotFound", err)
	}
}

func TestGetProfileByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, s, "p1", u.ID, base)
	seedPost(t, s, "p2", u.ID, base.Add(time.Minute))

	p, err := s.GetProfileByUsername(ctx, u.Username)
	if err != nil {
		t.Fatalf("GetProfileByUsername: %v", err)
	}
	if p.ID != u.ID {
		t.Errorf("ID: got %q, want %q", p.ID, u.ID)
	}
	if p.PostCount != 2 {
		t.Errorf("PostCount: got %d, want 2", p.PostCount)
	}

	if _, err := s.GetProfileByUsername(ctx, "nobody"); err != store.ErrNotFound {
		t.Errorf("missing profile: got %v, want ErrNotFound", err)
	}
}
