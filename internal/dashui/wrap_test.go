package dashui

import (
	"strings"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("cannot parse the following lines", 12)
	want := "cannot\nparse the\nfollowing\nlines"
	if got != want {
		t.Fatalf("unexpected wrap:\n%q\nwant\n%q", got, want)
	}
}

func TestWrapTextKeepsNewlines(t *testing.T) {
	got := wrapText("a b\nc d", 10)
	if got != "a b\nc d" {
		t.Fatalf("expected newlines kept, got %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("expected long word split, got %q", got)
	}
	for _, line := range strings.Split(wrapText("Your Spiral Cast hit Thrall Soul", 8), "\n") {
		if len(line) > 8 {
			t.Fatalf("line too wide: %q", line)
		}
	}
}
