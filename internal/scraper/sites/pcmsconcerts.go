package sites

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

const (
	pcmsBaseURL  = "https://www.pcmsconcerts.org"
	pcmsListURL  = "https://www.pcmsconcerts.org/concerts/"
	pcmsPages    = 3
	pcmsVenue    = "Perelman Theater, 300 South Broad Street, Philadelphia, PA"
	pcmsCurtains = "7:30 PM"
)

// Season-pass and subscription cards share the concert card markup.
var pcmsSkipSlugs = map[string]struct{}{
	"livestreams": {}, "subscriptions": {}, "season-pass": {},
	"group-tickets": {}, "season-at-a-glance": {}, "gala": {},
}

var (
	pcmsDateRe  = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\.?\s+\d{1,2},?\s+20\d{2}(\s+at\s+\d{1,2}:\d{2}\s*(?:am|pm))?`)
	pcmsPriceRe = regexp.MustCompile(`\$\s*([\d.]+)`)
	pcmsBrRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// PCMSConcerts scrapes the Philadelphia Chamber Music Society concert
// calendar. The season pages sometimes carry MusicEvent JSON-LD; the
// gridpost anchor cards are the fallback.
type PCMSConcerts struct {
	client *http.Client
	chain  Chain
	seen   map[string]struct{}
}

func NewPCMSConcerts(client *http.Client) *PCMSConcerts {
	p := &PCMSConcerts{client: client}
	p.chain = Chain{
		&JSONLD{Types: []string{"MusicEvent"}},
		&Cards{Selector: "a.gridpost", Parse: p.parseCard},
	}
	return p
}

func (c *PCMSConcerts) Config() Config {
	return Config{
		Name:            "Philadelphia Chamber Music Society",
		URL:             pcmsListURL,
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: pcmsVenue,
	}
}

func (c *PCMSConcerts) Fetch(ctx context.Context) (*RawDocument, error) {
	urls := make([]string, 0, pcmsPages)
	for n := 1; n <= pcmsPages; n++ {
		if n == 1 {
			urls = append(urls, pcmsListURL)
			continue
		}
		urls = append(urls, fmt.Sprintf("%spage/%d/", pcmsListURL, n))
	}
	return fetchPages(ctx, c.client, urls, nil)
}

func (c *PCMSConcerts) Extract(doc *RawDocument) []Draft {
	c.seen = make(map[string]struct{})

	var drafts []Draft
	for _, d := range c.chain.Extract(doc) {
		if _, dup := c.seen[d.Title]; dup {
			continue
		}
		c.seen[d.Title] = struct{}{}
		d.Category = domain.CategoryArtsAndCulture
		drafts = append(drafts, d)
	}
	return drafts
}

func (c *PCMSConcerts) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	href, _ := sel.Attr("href")
	slug := strings.TrimSuffix(href, "/")
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	if slug == "" {
		return Draft{}, false
	}
	if _, skip := pcmsSkipSlugs[slug]; skip {
		return Draft{}, false
	}

	title := c.cardTitle(sel)
	if len(title) < 4 {
		return Draft{}, false
	}

	cardText := cleanText(sel.Text())
	date := pcmsDateRe.FindStringSubmatch(cardText)
	if date == nil {
		return Draft{}, false
	}

	d := Draft{
		Title:    title,
		DateText: date[0],
		Location: pcmsVenue,
		URL:      absURL(pcmsBaseURL, href),
	}
	// Chamber concerts without a printed time are evening programs.
	if date[2] == "" {
		d.TimeText = pcmsCurtains
	}
	if m := pcmsPriceRe.FindStringSubmatch(cardText); m != nil {
		d.Price = "$" + m[1]
	}
	return d, true
}

// cardTitle reads the h4 heading, turning performer line breaks into
// a separator instead of run-together names.
func (c *PCMSConcerts) cardTitle(sel *goquery.Selection) string {
	h4 := sel.Find("h4").First()
	if h4.Length() == 0 {
		return truncate(cleanText(sel.Text()), 80)
	}
	html, err := h4.Html()
	if err != nil {
		return cleanText(h4.Text())
	}
	return stripTags(pcmsBrRe.ReplaceAllString(html, " / "))
}
