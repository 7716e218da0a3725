package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Data Scientist", 10},
		{"Fulbright Foreign Student Program", 4},
		{"", 0},
		{"日本政府奨学金", 5},
		{"abc", 3},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(out) > width {
			t.Fatalf("truncated text %q exceeds width %d", out, width)
		}
	})
}
