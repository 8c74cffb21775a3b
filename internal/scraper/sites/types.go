package sites

import (
	"context"
	"regexp"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
)

// Config is the static per-source configuration. Built once at startup
// and never mutated.
type Config struct {
	// Name is the display name stored on every event from this source.
	Name string
	// URL is the source's landing page, used as the source_url fallback.
	URL string
	// DefaultCategory is used when no keyword matches.
	DefaultCategory domain.Category
	// DefaultLocation is used when a listing carries no location.
	DefaultLocation string
}

// Page is one fetched document. Tag is adapter-private metadata, e.g.
// the listing category a page was fetched for.
type Page struct {
	URL  string
	Body []byte
	Tag  string
}

// RawDocument is the result of one Fetch: one or more pages.
type RawDocument struct {
	Pages []Page
}

// Draft is the loose, source-shaped listing a strategy extracts before
// validation. It lives only inside a single adapter run.
type Draft struct {
	Title       string
	Description string

	// DateText/TimeText are parsed by the normalizer. Start is set
	// instead when a strategy already holds a concrete timestamp.
	DateText string
	TimeText string
	Start    time.Time
	EndText  string

	Location string
	// Region is the address region code when the source exposes one;
	// non-matching regions are dropped during validation.
	Region string

	// Category is a source-provided tag mapped into the enumeration;
	// used directly when valid. DefaultCategory, when set, overrides
	// the adapter default as the keyword-miss fallback.
	Category        domain.Category
	DefaultCategory domain.Category

	Price    string
	URL      string
	ImageURL string
}

// Adapter couples one source's fetch logic with its extraction chain.
// Extract may keep per-run scratch state; runs never overlap for the
// same adapter.
type Adapter interface {
	Config() Config
	Fetch(ctx context.Context) (*RawDocument, error)
	Extract(doc *RawDocument) []Draft
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
)

// cleanText collapses whitespace and trims.
func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// stripTags removes HTML tags from API-provided rich text.
func stripTags(s string) string {
	return cleanText(tagRe.ReplaceAllString(s, " "))
}

// truncate shortens s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// absURL resolves href against the site base when it is relative.
func absURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}

// formatPrice maps a raw price value to the catalog convention:
// zero/empty means "Free", a bare number gets a dollar sign.
func formatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "0", "0.00", "free", "$0":
		if raw == "" {
			return ""
		}
		return "Free"
	}
	if strings.HasPrefix(raw, "$") {
		return raw
	}
	if priceNumberRe.MatchString(raw) {
		return "$" + raw
	}
	return truncate(raw, 30)
}

var priceNumberRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
