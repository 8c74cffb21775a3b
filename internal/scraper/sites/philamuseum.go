package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"phillyevents/internal/models/domain"
)

// sanityQueryURL is the museum's public Sanity dataset. Published
// content needs no auth.
const sanityQueryURL = "https://r7hgx2l2.api.sanity.io/v2021-10-21/data/query/production"

// PhilaMuseum pulls the Philadelphia Museum of Art calendar through
// the Sanity GROQ API. One document holds many occurrences; each
// upcoming occurrence becomes its own event.
type PhilaMuseum struct {
	client *http.Client
	now    func() time.Time
}

func NewPhilaMuseum(client *http.Client, now func() time.Time) *PhilaMuseum {
	return &PhilaMuseum{client: client, now: now}
}

func (m *PhilaMuseum) Config() Config {
	return Config{
		Name:            "Philadelphia Museum of Art",
		URL:             "https://philamuseum.org/events",
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: "Philadelphia Museum of Art, 2600 Benjamin Franklin Pkwy, Philadelphia, PA",
	}
}

func (m *PhilaMuseum) Fetch(ctx context.Context) (*RawDocument, error) {
	today := m.now().UTC().Format("2006-01-02T00:00:00Z")
	groq := fmt.Sprintf(`*[_type=="event"] {
  title,
  "slug": slug.current,
  cardDescription,
  "upcomingOccurrences": occurrences[
    status=="active" && start >= %q
  ] | order(start asc) [0..5] {start, end, status}
} [defined(upcomingOccurrences) && count(upcomingOccurrences) > 0]
| order(upcomingOccurrences[0].start asc) [0..100]`, today)

	queryURL := sanityQueryURL + "?query=" + url.QueryEscape(groq)
	return fetchPages(ctx, m.client, []string{queryURL}, map[string]string{"Accept": "application/json"})
}

func (m *PhilaMuseum) Extract(doc *RawDocument) []Draft {
	var drafts []Draft
	seen := make(map[string]struct{})

	for _, p := range doc.Pages {
		var payload struct {
			Result []map[string]any `json:"result"`
		}
		if err := json.Unmarshal(p.Body, &payload); err != nil {
			continue
		}

		for _, item := range payload.Result {
			title := cleanText(jsonStr(item, "title"))
			if title == "" {
				continue
			}

			eventURL := "https://philamuseum.org/events"
			if slug := jsonStr(item, "slug"); slug != "" {
				eventURL = "https://philamuseum.org/events/" + slug
			}
			description := truncate(cleanText(jsonStr(item, "cardDescription")), 500)

			for _, raw := range jsonList(item, "upcomingOccurrences") {
				occ, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				start := jsonStr(occ, "start")
				if start == "" {
					continue
				}

				day := start
				if len(day) > 10 {
					day = day[:10]
				}
				key := title + "_" + day
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				drafts = append(drafts, Draft{
					Title:       title,
					Description: description,
					DateText:    start,
					EndText:     jsonStr(occ, "end"),
					Category:    domain.CategoryArtsAndCulture,
					URL:         eventURL,
				})
			}
		}
	}
	return drafts
}
