package sites

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

// The city's marquee races live on their own sites, one race each.
var majorRaceSites = []struct {
	name string
	url  string
}{
	{"Broad Street Run", "https://www.broadstreetrun.com"},
	{"Love Run Philadelphia", "https://www.loverunphiladelphia.com"},
	{"Philadelphia Marathon", "https://www.philadelphiamarathon.com"},
	{"Philly 10K", "https://www.phillyruns.com"},
}

const majorRaceHorizon = 548 * 24 * time.Hour

// Year-anchored date shapes hunted out of the page prose when the site
// carries no structured data.
var majorRaceDateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+20\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/20\d{2}`),
	regexp.MustCompile(`20\d{2}-\d{2}-\d{2}`),
}

// Layouts matching the hunted patterns, for the window check only; the
// pipeline re-parses the DateText it is handed.
var majorRaceLayouts = []string{
	"January 2, 2006", "January 2 2006", "1/2/2006", "2006-01-02",
}

// MajorRaces scrapes the official sites of Philadelphia's big annual
// races. Each site yields at most one event per cycle: the next
// running of that race.
type MajorRaces struct {
	client *http.Client
	now    func() time.Time
}

func NewMajorRaces(client *http.Client, now func() time.Time) *MajorRaces {
	return &MajorRaces{client: client, now: now}
}

func (m *MajorRaces) Config() Config {
	return Config{
		Name:            "Philadelphia Major Races",
		URL:             "https://www.broadstreetrun.com",
		DefaultCategory: domain.CategoryRunning,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (m *MajorRaces) Fetch(ctx context.Context) (*RawDocument, error) {
	doc := &RawDocument{}
	var lastErr error

	for _, race := range majorRaceSites {
		page, err := fetchPage(ctx, m.client, race.url, nil)
		if err != nil {
			lastErr = err
			continue
		}
		page.Tag = race.name
		doc.Pages = append(doc.Pages, page)
	}
	if len(doc.Pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return doc, nil
}

func (m *MajorRaces) Extract(doc *RawDocument) []Draft {
	jsonld := &JSONLD{Types: []string{"SportsEvent"}}
	var drafts []Draft

	for _, p := range doc.Pages {
		if d, ok := m.fromStructured(jsonld, p); ok {
			drafts = append(drafts, d)
			continue
		}
		if d, ok := m.fromProse(p); ok {
			drafts = append(drafts, d)
		}
	}
	return drafts
}

func (m *MajorRaces) fromStructured(jsonld *JSONLD, p Page) (Draft, bool) {
	for _, d := range jsonld.Extract(p) {
		if d.DateText == "" {
			continue
		}
		// The race name from the registry reads better than the
		// site's marketing title.
		d.Title = p.Tag
		d.Category = domain.CategoryRunning
		if d.Location == "" {
			d.Location = "Philadelphia, PA"
		}
		if d.URL == "" {
			d.URL = p.URL
		}
		return d, true
	}
	return Draft{}, false
}

// fromProse hunts the page text for the next race date and takes the
// meta description as the blurb.
func (m *MajorRaces) fromProse(p Page) (Draft, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return Draft{}, false
	}

	text := cleanText(doc.Text())
	now := m.now()

	dateText := ""
	for _, re := range majorRaceDateRes {
		for _, match := range re.FindAllString(text, -1) {
			if !m.inWindow(match, now) {
				continue
			}
			dateText = match
			break
		}
		if dateText != "" {
			break
		}
	}
	if dateText == "" {
		return Draft{}, false
	}

	description, _ := doc.Find(`meta[name="description"]`).Attr("content")
	if description == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}
	if description == "" {
		description = cleanText(doc.Find("p").First().Text())
	}

	return Draft{
		Title:       p.Tag,
		Description: truncate(cleanText(description), 400),
		DateText:    dateText,
		Location:    "Philadelphia, PA",
		Category:    domain.CategoryRunning,
		URL:         p.URL,
	}, true
}

// inWindow keeps only strictly-future dates within the horizon. Past
// years dominate the prose on these sites (results pages, records).
func (m *MajorRaces) inWindow(match string, now time.Time) bool {
	// Month names parse case-sensitively.
	match = strings.ToLower(match)
	if match != "" {
		match = strings.ToUpper(match[:1]) + match[1:]
	}
	for _, layout := range majorRaceLayouts {
		t, err := time.Parse(layout, match)
		if err != nil {
			continue
		}
		return t.After(now) && !t.After(now.Add(majorRaceHorizon))
	}
	return false
}
