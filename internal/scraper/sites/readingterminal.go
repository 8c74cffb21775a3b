package sites

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

// readingTerminalHorizon bounds how far ahead a listing may start.
// The market misuses its events plugin for permanent promo pages and
// stamps those with far-future dates.
const readingTerminalHorizon = 18 * 30 * 24 * time.Hour

// ReadingTerminal scrapes the Reading Terminal Market events page.
// JSON-LD first; the Events Calendar plugin markup is the fallback.
type ReadingTerminal struct {
	client *http.Client
	chain  Chain
	now    func() time.Time
}

func NewReadingTerminal(client *http.Client, now func() time.Time) *ReadingTerminal {
	r := &ReadingTerminal{client: client, now: now}
	r.chain = Chain{
		&JSONLD{SkipTitles: []string{
			"gift cards", "gift card", "become an ambassador", "ambassador",
			"vendor application", "vendor app", "newsletter", "subscribe",
			"contact us", "about", "parking", "directions", "hours",
		}},
		&Cards{Selector: "article[class*='tribe'], div[class*='tribe-event']", Parse: r.parseCard},
	}
	return r
}

func (r *ReadingTerminal) Config() Config {
	return Config{
		Name:            "Reading Terminal Market",
		URL:             "https://www.readingterminalmarket.org/events/",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Reading Terminal Market, 51 N 12th St, Philadelphia, PA",
	}
}

func (r *ReadingTerminal) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, r.client, []string{r.Config().URL}, nil)
}

func (r *ReadingTerminal) Extract(doc *RawDocument) []Draft {
	drafts := r.chain.Extract(doc)
	cutoff := r.now().Add(readingTerminalHorizon)

	out := drafts[:0]
	for _, d := range drafts {
		if t, err := time.Parse(time.RFC3339, d.DateText); err == nil && t.After(cutoff) {
			continue
		}
		d.Category = domain.CategoryCommunity
		// The market's own vendors list themselves as the venue.
		if d.Location != "" && !strings.Contains(d.Location, "Reading Terminal") {
			d.Location = ""
		}
		out = append(out, d)
	}
	return out
}

func (r *ReadingTerminal) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	title := cleanText(sel.Find("h2, h3").First().Text())
	if title == "" {
		return Draft{}, false
	}

	dateText := ""
	if dt, ok := sel.Find("time").First().Attr("datetime"); ok {
		dateText = dt
	}

	d := Draft{Title: title, DateText: dateText, Category: domain.CategoryCommunity}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		d.URL = absURL("https://www.readingterminalmarket.org", href)
	}
	return d, true
}
