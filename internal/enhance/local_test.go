package enhance

import (
	"context"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   string
	}{
		{"portrait of an old man", "person"},
		{"a cat sleeping in the sun", "animal"},
		{"sunset over the mountains", "landscape"},
		{"a dragon guarding treasure", "fantasy"},
		{"a robot exploring ruins", "sci-fi"},
		{"a vintage typewriter", "object"},
		{"A DRAGON IN THE SKY", "fantasy"},
		{"", "object"},
	}

	for _, tc := range tests {
		t.Run(tc.prompt, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.prompt); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestLocalEnhance(t *testing.T) {
	t.Parallel()

	t.Run("output starts with the prompt", func(t *testing.T) {
		t.Parallel()
		enhancer := NewLocal(1)

		got, err := enhancer.Enhance(context.Background(), "a red dragon")
		if err != nil {
			t.Fatalf("Enhance: %v", err)
		}
		if !strings.HasPrefix(got, "a red dragon, ") {
			t.Errorf("output does not start with the prompt: %q", got)
		}
		// Prompt plus two details plus three styles.
		if parts := strings.Split(got, ", "); len(parts) != 6 {
			t.Errorf("want 6 comma-separated parts, got %d: %q", len(parts), got)
		}
	})

	t.Run("details come from the prompt's category", func(t *testing.T) {
		t.Parallel()
		enhancer := NewLocal(1)

		got, err := enhancer.Enhance(context.Background(), "a red dragon")
		if err != nil {
			t.Fatalf("Enhance: %v", err)
		}

		parts := strings.Split(got, ", ")
		fantasy := categoryDetails["fantasy"]
		for _, detail := range parts[1:3] {
			if !contains(fantasy, detail) {
				t.Errorf("detail %q not in the fantasy category", detail)
			}
		}
		for _, style := range parts[3:] {
			if !contains(styleEnhancements, style) {
				t.Errorf("style %q not a known style fragment", style)
			}
		}
	})

	t.Run("same seed gives same output", func(t *testing.T) {
		t.Parallel()

		first, err := NewLocal(42).Enhance(context.Background(), "a red dragon")
		if err != nil {
			t.Fatalf("Enhance: %v", err)
		}
		second, err := NewLocal(42).Enhance(context.Background(), "a red dragon")
		if err != nil {
			t.Fatalf("Enhance: %v", err)
		}
		if first != second {
			t.Errorf("same seed diverged:\n%q\n%q", first, second)
		}
	})
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
