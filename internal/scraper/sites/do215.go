package sites

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/geziyor/geziyor"
	"github.com/geziyor/geziyor/client"

	"phillyevents/internal/models/domain"
)

// do215Days is the crawl horizon: the landing page plus one day page
// per upcoming day.
const do215Days = 30

// do215CategoryMap translates Do215's CSS category slugs into the
// catalog enumeration.
var do215CategoryMap = map[string]domain.Category{
	"music":    domain.CategoryMusic,
	"comedy":   domain.CategoryArtsAndCulture,
	"food":     domain.CategoryFoodAndDrink,
	"drink":    domain.CategoryFoodAndDrink,
	"arts":     domain.CategoryArtsAndCulture,
	"culture":  domain.CategoryArtsAndCulture,
	"sports":   domain.CategoryRunning,
	"fitness":  domain.CategoryRunning,
	"film":     domain.CategoryArtsAndCulture,
	"charity":  domain.CategoryCommunity,
	"trivia":   domain.CategoryCommunity,
	"other":    domain.CategoryCommunity,
	"activism": domain.CategoryCommunity,
}

var (
	do215PermalinkRe = regexp.MustCompile(`/events/(\d{4})/(\d+)/(\d+)/`)
	do215ClassRe     = regexp.MustCompile(`ds-event-category-([a-z-]+)`)
	do215StyleURLRe  = regexp.MustCompile(`url\('([^']+)'\)`)
	do215PriceRe     = regexp.MustCompile(`\$[\d.]+`)
)

// Do215 crawls do215.com, the local events guide. The calendar is
// split across per-day pages, so Fetch walks the next month of them.
type Do215 struct {
	now   func() time.Time
	chain Chain
	seen  map[string]struct{}
}

func NewDo215(now func() time.Time) *Do215 {
	d := &Do215{now: now}
	d.chain = Chain{&Cards{Selector: "div.event-card", Parse: d.parseCard}}
	return d
}

func (d *Do215) Config() Config {
	return Config{
		Name:            "Do215",
		URL:             "https://do215.com/events",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (d *Do215) Fetch(ctx context.Context) (*RawDocument, error) {
	urls := make([]string, 0, do215Days+1)
	urls = append(urls, "https://do215.com/events")
	now := d.now()
	for i := 1; i <= do215Days; i++ {
		day := now.AddDate(0, 0, i)
		urls = append(urls, fmt.Sprintf("https://do215.com/events/%d/%d/%d",
			day.Year(), int(day.Month()), day.Day()))
	}

	var mu sync.Mutex
	doc := &RawDocument{}

	gez := geziyor.NewGeziyor(&geziyor.Options{
		StartURLs: urls,
		UserAgent: browserUA,
		ParseFunc: func(g *geziyor.Geziyor, r *client.Response) {
			mu.Lock()
			doc.Pages = append(doc.Pages, Page{URL: r.Request.URL.String(), Body: r.Body})
			mu.Unlock()
		},
	})
	gez.Start()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("do215: crawl fetched no pages")
	}
	return doc, nil
}

func (d *Do215) Extract(doc *RawDocument) []Draft {
	d.seen = make(map[string]struct{})
	return d.chain.Extract(doc)
}

func (d *Do215) parseCard(p Page, sel *goquery.Selection) (Draft, bool) {
	title := cleanText(sel.Find("[itemprop='name']").First().Text())
	if title == "" {
		return Draft{}, false
	}

	href, ok := sel.Find("a.ds-listing-event-title").First().Attr("href")
	if !ok || href == "" {
		return Draft{}, false
	}
	// Weekly recurring listings carry no concrete date.
	if strings.Contains(href, "/weekly/") {
		return Draft{}, false
	}
	eventURL := absURL("https://do215.com", href)
	if _, dup := d.seen[eventURL]; dup {
		return Draft{}, false
	}
	d.seen[eventURL] = struct{}{}

	permalink, ok := sel.Attr("data-permalink")
	if !ok {
		permalink = href
	}
	m := do215PermalinkRe.FindStringSubmatch(permalink)
	if m == nil {
		return Draft{}, false
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	dateText := fmt.Sprintf("%s-%02d-%02d", m[1], month, day)

	timeText := cleanText(sel.Find(".ds-event-time").First().Text())
	if timeText == "" {
		timeText = "12:00PM"
	}

	venue := cleanText(sel.Find("[itemtype='http://schema.org/Place'] [itemprop='name']").First().Text())
	location := "Philadelphia, PA"
	if venue != "" {
		location = venue + ", Philadelphia, PA"
	}

	draft := Draft{
		Title:       title,
		Description: fmt.Sprintf("Live event at %s. See website for details and tickets.", strings.SplitN(location, ",", 2)[0]),
		DateText:    dateText,
		TimeText:    timeText,
		Location:    location,
		Category:    d.category(sel),
		URL:         eventURL,
	}

	if priceText := cleanText(sel.Find("[class*='price'], [class*='Price']").First().Text()); priceText != "" {
		switch {
		case strings.Contains(strings.ToLower(priceText), "free"):
			draft.Price = "Free"
		case do215PriceRe.MatchString(priceText):
			draft.Price = do215PriceRe.FindString(priceText)
		default:
			draft.Price = truncate(priceText, 30)
		}
	}

	if style, ok := sel.Find(".ds-cover-image").First().Attr("style"); ok {
		if m := do215StyleURLRe.FindStringSubmatch(style); m != nil {
			draft.ImageURL = m[1]
		}
	}
	return draft, true
}

// category reads the ds-event-category-<slug> class off the card.
func (d *Do215) category(sel *goquery.Selection) domain.Category {
	classes, _ := sel.Attr("class")
	m := do215ClassRe.FindStringSubmatch(classes)
	if m == nil {
		return domain.CategoryCommunity
	}
	for _, part := range strings.Split(m[1], "-") {
		if c, ok := do215CategoryMap[part]; ok {
			return c
		}
	}
	return domain.CategoryCommunity
}
