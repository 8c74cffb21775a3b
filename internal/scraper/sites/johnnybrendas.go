package sites

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

// JohnnyBrendas scrapes the Johnny Brenda's listings page, which is
// plain server-rendered HTML with one rhpSingleEvent card per show.
type JohnnyBrendas struct {
	client *http.Client
	chain  Chain
}

func NewJohnnyBrendas(client *http.Client) *JohnnyBrendas {
	j := &JohnnyBrendas{client: client}
	j.chain = Chain{&Cards{Selector: "div.rhpSingleEvent", Parse: j.parseCard}}
	return j
}

func (j *JohnnyBrendas) Config() Config {
	return Config{
		Name:            "Johnny Brenda's",
		URL:             "https://johnnybrendas.com/events",
		DefaultCategory: domain.CategoryMusic,
		DefaultLocation: "Johnny Brenda's, 1201 Frankford Ave, Philadelphia, PA",
	}
}

func (j *JohnnyBrendas) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, j.client, []string{j.Config().URL}, nil)
}

func (j *JohnnyBrendas) Extract(doc *RawDocument) []Draft {
	return j.chain.Extract(doc)
}

func (j *JohnnyBrendas) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	title := cleanText(sel.Find(".eventTitleDiv").First().Text())
	if title == "" {
		title = cleanText(sel.Find("h2, h3, h4").First().Text())
	}
	if title == "" {
		return Draft{}, false
	}

	dateText := ""
	if t := sel.Find(".singleEventDate").First(); t.Length() > 0 {
		dateText = cleanText(t.Text())
	} else if t := sel.Find("time").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok && dt != "" {
			dateText = dt
		} else {
			dateText = cleanText(t.Text())
		}
	}

	d := Draft{
		Title:       title,
		Description: truncate(cleanText(sel.Find("p, .eventDescription").First().Text()), 400),
		DateText:    dateText,
		Category:    domain.CategoryMusic,
		Price:       formatPrice(cleanText(sel.Find(".eventCost").First().Text())),
	}

	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		d.URL = absURL("https://johnnybrendas.com", href)
	}
	if src, ok := sel.Find("img").First().Attr("src"); ok {
		d.ImageURL = src
	}
	return d, true
}
