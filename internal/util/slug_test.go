package util

import (
	"context"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Breaking: Council Votes, Again!",
			expected: "breaking-council-votes-again",
		},
		{
			name:     "with numbers",
			input:    "Top 10 Stories",
			expected: "top-10-stories",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "cyrillic transliterated",
			input:    "Новости дня",
			expected: "novosti-dnia",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			expected: "uber-munchen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTranslationSlug(t *testing.T) {
	if got := TranslationSlug("council-votes", "ZULU"); got != "council-votes-zulu" {
		t.Errorf("TranslationSlug() = %q, want %q", got, "council-votes-zulu")
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"story": true, "story-2": true}
	exists := func(_ context.Context, s string) (bool, error) {
		return taken[s], nil
	}

	got, err := UniqueSlug(context.Background(), "story", exists)
	if err != nil {
		t.Fatalf("UniqueSlug() error = %v", err)
	}
	if got != "story-3" {
		t.Errorf("UniqueSlug() = %q, want %q", got, "story-3")
	}

	got, err = UniqueSlug(context.Background(), "fresh", exists)
	if err != nil {
		t.Fatalf("UniqueSlug() error = %v", err)
	}
	if got != "fresh" {
		t.Errorf("UniqueSlug() = %q, want %q", got, "fresh")
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "a1-b2"}
	invalid := []string{"", "-hello", "hello-", "hello--world", "Hello", "hello world"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
