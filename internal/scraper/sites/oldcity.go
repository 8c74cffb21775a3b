package sites

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"phillyevents/internal/models/domain"
)

// oldCityClimb bounds the ancestor walk from a time element to its
// event container.
const oldCityClimb = 6

// OldCity scrapes the Old City District upcoming-events page. The
// Drupal markup carries no event class; each listing is anchored by a
// time element with a machine-readable datetime, and the surrounding
// container holds the rest.
type OldCity struct {
	client *http.Client
	chain  Chain
	seen   map[string]struct{}
}

func NewOldCity(client *http.Client) *OldCity {
	o := &OldCity{client: client}
	o.chain = Chain{&Cards{Selector: "time[datetime]", Parse: o.parseTimeElem}}
	return o
}

func (o *OldCity) Config() Config {
	return Config{
		Name:            "Old City District",
		URL:             "https://oldcitydistrict.org/things-do/upcoming-events",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Old City, Philadelphia, PA",
	}
}

func (o *OldCity) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, o.client, []string{o.Config().URL}, nil)
}

func (o *OldCity) Extract(doc *RawDocument) []Draft {
	o.seen = make(map[string]struct{})
	return o.chain.Extract(doc)
}

func (o *OldCity) parseTimeElem(p Page, sel *goquery.Selection) (Draft, bool) {
	dateText, _ := sel.Attr("datetime")
	if dateText == "" {
		return Draft{}, false
	}

	container := o.container(sel)
	if container == nil {
		return Draft{}, false
	}

	title := cleanText(container.Find("h2, h3, h4").First().Text())
	if len(title) < 4 {
		return Draft{}, false
	}

	eventURL := ""
	if href, ok := container.Find("a[href]").First().Attr("href"); ok {
		eventURL = absURL("https://oldcitydistrict.org", href)
	}
	if eventURL != "" {
		if _, dup := o.seen[eventURL]; dup {
			return Draft{}, false
		}
		o.seen[eventURL] = struct{}{}
	}

	d := Draft{
		Title:       title,
		Description: truncate(cleanText(container.Find("p").First().Text()), 400),
		DateText:    dateText,
		Location:    "Old City, Philadelphia, PA",
		URL:         eventURL,
	}
	if src, ok := container.Find("img").First().Attr("src"); ok {
		d.ImageURL = src
	}
	return d, true
}

// container climbs from the time element until an ancestor carries a
// heading.
func (o *OldCity) container(sel *goquery.Selection) *goquery.Selection {
	node := sel
	for i := 0; i < oldCityClimb; i++ {
		node = node.Parent()
		if node.Length() == 0 {
			return nil
		}
		if node.Find("h2, h3, h4").Length() > 0 {
			return node
		}
	}
	return nil
}
