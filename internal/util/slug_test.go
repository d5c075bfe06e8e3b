package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "DRAGONS", "dragons"},
		{"spaces to dashes", "going faster with go", "going-faster-with-go"},
		{"already normalized", "slow-burn", "slow-burn"},

		// Whitespace handling
		{"trim whitespace", "  dragons  ", "dragons"},
		{"multiple spaces", "slow   burn", "slow-burn"},

		// Special characters
		{"accents decomposed", "Café Culture", "cafe-culture"},
		{"punctuation to dashes", "sci-fi/fantasy", "sci-fi-fantasy"},
		{"apostrophe to dash", "don't", "don-t"},
		{"emoji removal", "🚀 Launch Day", "launch-day"},

		// Dash handling
		{"multiple dashes collapsed", "slow--burn", "slow-burn"},
		{"leading and trailing trimmed", "--dragons--", "dragons"},

		// Edge cases
		{"empty string", "", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "Top 10 Posts", "top-10-posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateUsername(t *testing.T) {
	username, err := GenerateUsername("Ada Lovelace")
	if err != nil {
		t.Fatalf("GenerateUsername() error = %v", err)
	}
	if !strings.HasPrefix(username, "ada_lovelace_") {
		t.Errorf("GenerateUsername() = %q, want ada_lovelace_ prefix", username)
	}
	if len(username) != len("ada_lovelace_")+8 {
		t.Errorf("GenerateUsername() = %q, want 8 character suffix", username)
	}

	// Two calls must not collide.
	other, err := GenerateUsername("Ada Lovelace")
	if err != nil {
		t.Fatalf("GenerateUsername() error = %v", err)
	}
	if other == username {
		t.Errorf("GenerateUsername() returned duplicate handle %q", username)
	}
}
