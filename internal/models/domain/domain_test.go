package domain

import (
	"testing"
	"time"
)

func TestIdentityKeyPrefersSourceURL(t *testing.T) {
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	withURL := Event{Title: "Show", Start: start, SourceURL: "https://venue.test/show"}
	if withURL.IdentityKey() != "https://venue.test/show" {
		t.Errorf("key = %q", withURL.IdentityKey())
	}

	withoutURL := Event{Title: "Show", Start: start}
	want := "Show|" + start.Format(time.RFC3339)
	if withoutURL.IdentityKey() != want {
		t.Errorf("key = %q, want %q", withoutURL.IdentityKey(), want)
	}

	// Same title on different days must stay distinct.
	other := Event{Title: "Show", Start: start.Add(24 * time.Hour)}
	if withoutURL.IdentityKey() == other.IdentityKey() {
		t.Error("distinct starts collided")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, ok)
		}
	}
	if _, ok := ParseCategory("sports"); ok {
		t.Error("unknown category accepted")
	}
}
