package sites

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one extraction technique applied to a fetched page.
type Strategy interface {
	Name() string
	Extract(p Page) []Draft
}

// Chain tries strategies in declared order and stops at the first one
// that yields at least one draft. Structured sources sit first; the
// regex scan is last because layout drift breaks it silently.
type Chain []Strategy

// Extract runs the chain over the whole document.
func (c Chain) Extract(doc *RawDocument) []Draft {
	for _, s := range c {
		var drafts []Draft
		for _, p := range doc.Pages {
			drafts = append(drafts, s.Extract(p)...)
		}
		if len(drafts) > 0 {
			return drafts
		}
	}
	return nil
}

// ---- JSON-LD structured data blocks ----

// JSONLD extracts schema.org Event items from ld+json script blocks.
// Handles single events, arrays, and ItemList wrappers.
type JSONLD struct {
	// Types widens the accepted @type set beyond "Event".
	Types []string
	// SkipTitles drops known non-event listings by exact lowercase title.
	SkipTitles []string
}

func (s *JSONLD) Name() string { return "jsonld" }

func (s *JSONLD) Extract(p Page) []Draft {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil
	}

	var drafts []Draft
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		for _, item := range s.collect(data) {
			if d, ok := s.parseItem(item, p); ok {
				drafts = append(drafts, d)
			}
		}
	})
	return drafts
}

// collect flattens the top-level ld+json shapes into event candidates.
func (s *JSONLD) collect(data any) []map[string]any {
	var out []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, s.collect(item)...)
		}
	case map[string]any:
		if jsonStr(v, "@type") == "ItemList" {
			for _, elem := range jsonList(v, "itemListElement") {
				m, ok := elem.(map[string]any)
				if !ok {
					continue
				}
				if inner, ok := m["item"].(map[string]any); ok {
					out = append(out, inner)
				} else {
					out = append(out, m)
				}
			}
			return out
		}
		out = append(out, v)
	}
	return out
}

func (s *JSONLD) accepts(typ string) bool {
	if typ == "Event" {
		return true
	}
	for _, t := range s.Types {
		if typ == t {
			return true
		}
	}
	return false
}

func (s *JSONLD) parseItem(item map[string]any, p Page) (Draft, bool) {
	if !s.accepts(jsonStr(item, "@type")) {
		return Draft{}, false
	}

	title := cleanText(jsonStr(item, "name"))
	if title == "" {
		return Draft{}, false
	}
	for _, skip := range s.SkipTitles {
		if strings.EqualFold(title, skip) {
			return Draft{}, false
		}
	}

	d := Draft{
		Title:       title,
		Description: truncate(stripTags(jsonStr(item, "description")), 500),
		DateText:    jsonStr(item, "startDate"),
		EndText:     jsonStr(item, "endDate"),
		URL:         jsonStr(item, "url"),
		ImageURL:    jsonImage(item["image"]),
		Price:       formatPrice(jsonPrice(item["offers"])),
	}
	d.Location, d.Region = jsonLocation(item["location"])
	return d, true
}

// ---- HTML cards ----

// Cards extracts drafts from server-rendered card markup. The parse
// function owns the source-specific selectors inside one card.
type Cards struct {
	Selector string
	Parse    func(p Page, sel *goquery.Selection) (Draft, bool)
}

func (s *Cards) Name() string { return "htmlcards" }

func (s *Cards) Extract(p Page) []Draft {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil
	}

	var drafts []Draft
	doc.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
		if d, ok := s.Parse(p, sel); ok {
			drafts = append(drafts, d)
		}
	})
	return drafts
}

// ---- embedded-script regex scan ----

// ScriptScan is the lowest-confidence strategy: regex token matches
// over the raw page, pairing each name with the nearest date token by
// character position. Best effort only; a squeezed or reordered payload
// produces wrong pairs rather than errors.
type ScriptScan struct {
	NameRe *regexpMatcher
	DateRe *regexpMatcher
	URLRe  *regexpMatcher
	// Window bounds name-to-date pairing distance in bytes.
	Window int
	// SkipNames drops venue self-references that match the name token.
	SkipNames []string
}

func (s *ScriptScan) Name() string { return "scriptscan" }

func (s *ScriptScan) Extract(p Page) []Draft {
	window := s.Window
	if window <= 0 {
		window = 2000
	}

	body := string(p.Body)
	names := s.NameRe.find(body)
	dateTokens := s.DateRe.find(body)
	var urls []token
	if s.URLRe != nil {
		urls = s.URLRe.find(body)
	}

	seen := make(map[string]struct{})
	var drafts []Draft

	for _, name := range names {
		if s.skip(name.value) {
			continue
		}

		date, ok := nearest(dateTokens, name.pos, window)
		if !ok {
			// A name with no date in range is noise, not an event.
			continue
		}

		if _, dup := seen[name.value]; dup {
			continue
		}
		seen[name.value] = struct{}{}

		d := Draft{Title: cleanText(name.value), DateText: date.value}
		if url, ok := nearest(urls, name.pos, window); ok {
			d.URL = url.value
		}
		drafts = append(drafts, d)
	}
	return drafts
}

func (s *ScriptScan) skip(name string) bool {
	for _, sk := range s.SkipNames {
		if strings.EqualFold(name, sk) {
			return true
		}
	}
	return false
}

type token struct {
	pos   int
	value string
}

// nearest returns the token closest to pos within the window.
func nearest(tokens []token, pos, window int) (token, bool) {
	best := token{}
	bestDist := window + 1
	for _, t := range tokens {
		dist := t.pos - pos
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = t
		}
	}
	return best, bestDist <= window
}

// regexpMatcher wraps a compiled pattern whose first capture group is
// the token value.
type regexpMatcher struct {
	re *regexp.Regexp
}

func matcher(pattern string) *regexpMatcher {
	return &regexpMatcher{re: regexp.MustCompile(pattern)}
}

func (m *regexpMatcher) find(body string) []token {
	var out []token
	for _, loc := range m.re.FindAllStringSubmatchIndex(body, -1) {
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		out = append(out, token{pos: loc[0], value: body[loc[2]:loc[3]]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}
