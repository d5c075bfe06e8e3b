// Package main provides a tool to seed the database with development data.
//
// It creates a handful of users, tagged posts, likes, bookmarks, comments,
// and follows so the feed and suggestion endpoints have something to show.
//
// Usage:
//
//	DATA_PATH=./data go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

var password = flag.String("password", "inkwell-dev", "Password for seeded accounts")

var seedUsers = []struct {
	name  string
	email string
}{
	{"Maya Chen", "maya@example.com"},
	{"Jonas Berg", "jonas@example.com"},
	{"Priya Nair", "priya@example.com"},
	{"Tom Okafor", "tom@example.com"},
	{"Lena Fischer", "lena@example.com"},
}

var seedPosts = []struct {
	title string
	tags  []string
}{
	{"A Field Guide to Sourdough Starters", []string{"baking", "food"}},
	{"Why I Switched Back to Film Photography", []string{"photography"}},
	{"Notes From a Week of Wild Camping", []string{"outdoors", "travel"}},
	{"The Quiet Art of Repairing Old Furniture", []string{"woodworking", "diy"}},
	{"Reading the City Through Its Bridges", []string{"architecture", "travel"}},
	{"My Year Without a Smartphone", []string{"minimalism"}},
	{"Fermentation Experiments That Went Wrong", []string{"food", "fermentation"}},
	{"Sketching Strangers on the Morning Train", []string{"drawing", "art"}},
	{"How I Plan Long Distance Hikes", []string{"outdoors", "hiking"}},
	{"Small Apartment, Big Herb Garden", []string{"gardening", "food"}},
	{"The Case for Handwritten Letters", []string{"writing"}},
	{"Darkroom Basics for the Impatient", []string{"photography", "diy"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "data"
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	dbPath := filepath.Join(dataPath, "inkwell.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 720*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	sessions := service.NewSessionService(st, tokens, logger)
	authSvc := service.NewAuthService(st, sessions, logger)
	posts := service.NewPostService(st, logger)
	social := service.NewSocialService(st, logger)

	ctx := context.Background()
	client := auth.ClientInfo{Name: "seed", IPAddress: "127.0.0.1"}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Users
	userIDs := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		resp, err := authSvc.Register(ctx, service.RegisterRequest{
			Email:    u.email,
			Password: *password,
			Name:     u.name,
		}, client)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}
		fmt.Printf("Created user %s (%s)\n", resp.User.Username, resp.User.ID)
		userIDs = append(userIDs, resp.User.ID)
	}

	// Posts with tags, round-robin across authors
	postIDs := make([]string, 0, len(seedPosts))
	for i, p := range seedPosts {
		authorID := userIDs[i%len(userIDs)]
		post, err := posts.CreatePost(ctx, authorID, service.CreatePostRequest{
			Title:       p.title,
			Description: "Seeded post for local development.",
			Text:        fmt.Sprintf("# %s\n\nThis is seeded content so the feed has something to scroll.", p.title),
			TextFormat:  "markdown",
			Tags:        p.tags,
		})
		if err != nil {
			log.Fatalf("Failed to create post %q: %v", p.title, err)
		}
		fmt.Printf("Created post %q by %s\n", post.Title, authorID)
		postIDs = append(postIDs, post.ID)
	}

	// Likes and bookmarks: each user interacts with a few random posts
	// they did not write
	for _, userID := range userIDs {
		for _, postID := range pickPosts(rng, postIDs, 4) {
			if err := posts.Like(ctx, userID, postID); err != nil {
				continue // own post or duplicate pick
			}
		}
		for _, postID := range pickPosts(rng, postIDs, 2) {
			if err := posts.Bookmark(ctx, userID, postID); err != nil {
				continue
			}
		}
	}

	// Comments
	for i, postID := range postIDs {
		commenter := userIDs[(i+1)%len(userIDs)]
		if _, err := posts.AddComment(ctx, commenter, postID, service.CommentRequest{
			Text: "Enjoyed this one, thanks for writing it up.",
		}); err != nil {
			log.Fatalf("Failed to comment on post %s: %v", postID, err)
		}
	}

	// Follows: a small ring so everyone has at least one follower
	for i, userID := range userIDs {
		followee := userIDs[(i+1)%len(userIDs)]
		if err := social.Follow(ctx, userID, followee); err != nil {
			log.Fatalf("Failed to create follow: %v", err)
		}
	}

	fmt.Printf("\nSeeded %d users, %d posts. All accounts use password %q.\n", len(userIDs), len(postIDs), *password)
}

// pickPosts returns up to n distinct random post IDs.
func pickPosts(rng *rand.Rand, postIDs []string, n int) []string {
	perm := rng.Perm(len(postIDs))
	if n > len(perm) {
		n = len(perm)
	}
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, postIDs[idx])
	}
	return picked
}
