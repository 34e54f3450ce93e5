package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("expected input returned unchanged, got %q", chunks[0])
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // 300 chars
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	// Each chunk after the first must start with the tail of the previous one.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-20:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not overlap previous chunk", i)
		}
	}
}

func TestSplitTextOverlapGreaterThanChunk(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 15)
	if len(chunks) != 5 {
		t.Errorf("expected fallback to non-overlapping chunks, got %d chunks", len(chunks))
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  SOX   404\n\ncontrols\ttesting  ")
	want := "SOX 404 controls testing"
	if got != want {
		t.Errorf("NormalizeText = %q, want %q", got, want)
	}
}
