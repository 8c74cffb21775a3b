package sites

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

var visitPhillyPages = []string{
	"https://www.visitphilly.com/events/",
	"https://www.visitphilly.com/things-to-do/arts-culture/",
	"https://www.visitphilly.com/things-to-do/food-drink/",
	"https://www.visitphilly.com/things-to-do/outdoor-recreation/",
}

// The listing pages repeat a handful of card shapes across redesigns.
const visitPhillyCardSel = "article, div[class*='card'], div[class*='event'], li[class*='event']"

// VisitPhilly scrapes the official tourism site. The events page ships
// JSON-LD; the things-to-do sections fall back to card markup. Events
// span every category, so keyword matching decides.
type VisitPhilly struct {
	client *http.Client
	chain  Chain
	seen   map[string]struct{}
}

func NewVisitPhilly(client *http.Client) *VisitPhilly {
	v := &VisitPhilly{client: client}
	v.chain = Chain{
		&JSONLD{},
		&Cards{Selector: visitPhillyCardSel, Parse: v.parseCard},
	}
	return v
}

func (v *VisitPhilly) Config() Config {
	return Config{
		Name:            "Visit Philadelphia",
		URL:             "https://www.visitphilly.com/events/",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (v *VisitPhilly) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, v.client, visitPhillyPages, nil)
}

func (v *VisitPhilly) Extract(doc *RawDocument) []Draft {
	v.seen = make(map[string]struct{})

	var drafts []Draft
	for _, d := range v.chain.Extract(doc) {
		// The same festival shows up on several section pages.
		if _, dup := v.seen[d.Title]; dup {
			continue
		}
		v.seen[d.Title] = struct{}{}
		drafts = append(drafts, d)
	}
	return drafts
}

func (v *VisitPhilly) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	title := cleanText(sel.Find("h2, h3, h4").First().Text())
	if title == "" {
		return Draft{}, false
	}

	dateText := ""
	if t := sel.Find("time").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok && dt != "" {
			dateText = dt
		} else {
			dateText = cleanText(t.Text())
		}
	} else if t := sel.Find("[class*='date']").First(); t.Length() > 0 {
		dateText = cleanText(t.Text())
	}
	if dateText == "" {
		return Draft{}, false
	}

	d := Draft{
		Title:       title,
		Description: truncate(cleanText(sel.Find("p").First().Text()), 300),
		DateText:    dateText,
	}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		d.URL = absURL("https://www.visitphilly.com", href)
	}
	if src, ok := sel.Find("img").First().Attr("src"); ok {
		d.ImageURL = src
	}
	return d, true
}
