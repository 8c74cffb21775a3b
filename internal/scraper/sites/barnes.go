package sites

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

// barnesDateRe pulls "February 22, 2026" style dates out of card text,
// including "Until February 22, 2026" exhibition banners.
var barnesDateRe = regexp.MustCompile(
	`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|` +
		`jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\s+(\d{1,2}),?\s+(20\d{2})`)

// barnesSkipWords mark nav and footer cards that share the card class.
var barnesSkipWords = []string{"visit", "membership", "newsletter", "donate", "contact", "shop"}

// Barnes scrapes the Barnes Foundation what's-on page. No structured
// data; exhibitions are generic cards whose text carries a date.
type Barnes struct {
	client *http.Client
	chain  Chain
	seen   map[string]struct{}
}

func NewBarnes(client *http.Client) *Barnes {
	b := &Barnes{client: client}
	b.chain = Chain{&Cards{Selector: "div[class*='card'], div[class*='Card']", Parse: b.parseCard}}
	return b
}

func (b *Barnes) Config() Config {
	return Config{
		Name:            "Barnes Foundation",
		URL:             "https://www.barnesfoundation.org/whats-on",
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: "Barnes Foundation, 2025 Benjamin Franklin Pkwy, Philadelphia, PA",
	}
}

func (b *Barnes) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, b.client, []string{b.Config().URL}, nil)
}

func (b *Barnes) Extract(doc *RawDocument) []Draft {
	b.seen = make(map[string]struct{})
	return b.chain.Extract(doc)
}

func (b *Barnes) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	title := cleanText(sel.Find("h2, h3, h4").First().Text())
	if len(title) < 4 {
		return Draft{}, false
	}
	if _, dup := b.seen[title]; dup {
		return Draft{}, false
	}

	lower := strings.ToLower(title)
	for _, skip := range barnesSkipWords {
		if strings.Contains(lower, skip) {
			return Draft{}, false
		}
	}

	cardText := cleanText(sel.Text())
	lowerText := strings.ToLower(cardText)
	if strings.Contains(lowerText, "permanent") && strings.Contains(lowerText, "ongoing") {
		return Draft{}, false
	}

	// The date lives somewhere in the prose, not in a dedicated node.
	m := barnesDateRe.FindString(cardText)
	if m == "" {
		return Draft{}, false
	}

	b.seen[title] = struct{}{}

	d := Draft{
		Title:       title,
		Description: truncate(cleanText(sel.Find("p").First().Text()), 400),
		DateText:    m,
		Category:    domain.CategoryArtsAndCulture,
	}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		d.URL = absURL("https://www.barnesfoundation.org", href)
	}
	if src, ok := sel.Find("img").First().Attr("src"); ok {
		d.ImageURL = src
	}
	return d, true
}
