package sites

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"phillyevents/internal/models/domain"
)

// eventbriteCategories maps catalog categories to Eventbrite listing
// directories. Each directory paginates in roughly 20-event pages.
var eventbriteCategories = []struct {
	category domain.Category
	url      string
}{
	{domain.CategoryMusic, "https://www.eventbrite.com/d/pa--philadelphia/music/"},
	{domain.CategoryFoodAndDrink, "https://www.eventbrite.com/d/pa--philadelphia/food-and-drink/"},
	{domain.CategoryArtsAndCulture, "https://www.eventbrite.com/d/pa--philadelphia/arts/"},
	{domain.CategoryRunning, "https://www.eventbrite.com/d/pa--philadelphia/health/"},
	{domain.CategoryCommunity, "https://www.eventbrite.com/d/pa--philadelphia/community/"},
	{domain.CategoryBusiness, "https://www.eventbrite.com/d/pa--philadelphia/business/"},
}

const (
	eventbritePagesPerCategory = 5
	eventbriteFetchWorkers     = 3
)

// Eventbrite scrapes the Philadelphia listing directories. Categories
// are fetched concurrently, bounded so the site is not hammered, and
// each page is tagged with the category it was listed under.
type Eventbrite struct {
	client *http.Client
	jsonld *JSONLD
}

func NewEventbrite(client *http.Client) *Eventbrite {
	return &Eventbrite{client: client, jsonld: &JSONLD{}}
}

func (e *Eventbrite) Config() Config {
	return Config{
		Name:            "Eventbrite",
		URL:             "https://www.eventbrite.com/d/pa--philadelphia/events/",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (e *Eventbrite) Fetch(ctx context.Context) (*RawDocument, error) {
	headers := map[string]string{"Accept-Language": "en-US,en;q=0.5"}

	var mu sync.Mutex
	var pages []Page

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(eventbriteFetchWorkers)

	for _, cat := range eventbriteCategories {
		cat := cat
		g.Go(func() error {
			for n := 1; n <= eventbritePagesPerCategory; n++ {
				url := cat.url
				if n > 1 {
					url = fmt.Sprintf("%s?page=%d", cat.url, n)
				}
				page, err := fetchPage(ctx, e.client, url, headers)
				if err != nil {
					// Deep pages 404 once the listing runs out.
					return nil
				}
				page.Tag = string(cat.category)
				mu.Lock()
				pages = append(pages, page)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("eventbrite: no listing pages fetched")
	}

	// Fetch order is nondeterministic; extraction order should not be.
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return &RawDocument{Pages: pages}, nil
}

func (e *Eventbrite) Extract(doc *RawDocument) []Draft {
	seen := make(map[string]struct{})
	var drafts []Draft

	for _, p := range doc.Pages {
		pageCategory, _ := domain.ParseCategory(p.Tag)
		for _, d := range e.jsonld.Extract(p) {
			if d.URL != "" {
				if _, dup := seen[d.URL]; dup {
					continue
				}
				seen[d.URL] = struct{}{}
			}
			// The listing category is a hint, not a fact; keyword
			// matching on the title takes precedence downstream.
			d.DefaultCategory = pageCategory
			drafts = append(drafts, d)
		}
	}
	return drafts
}
