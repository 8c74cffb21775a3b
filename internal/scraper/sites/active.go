package sites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
)

const (
	activeAPI       = "https://www.active.com/api/search"
	activeSearchURL = "https://www.active.com/philadelphia-pa/running/races"
	activeHorizon   = 548 * 24 * time.Hour
	activePageSize  = 50
)

// Active pulls running races around Philadelphia from the Active.com
// search API, falling back to its HTML search pages when the endpoint
// answers with something other than JSON.
type Active struct {
	client *http.Client
	now    func() time.Time
	jsonld *JSONLD
}

func NewActive(client *http.Client, now func() time.Time) *Active {
	return &Active{client: client, now: now, jsonld: &JSONLD{}}
}

func (a *Active) Config() Config {
	return Config{
		Name:            "Active.com",
		URL:             activeSearchURL,
		DefaultCategory: domain.CategoryRunning,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (a *Active) Fetch(ctx context.Context) (*RawDocument, error) {
	now := a.now()
	params := url.Values{
		"query":     {"running race philadelphia"},
		"location":  {"Philadelphia, PA"},
		"lat":       {"39.9526"},
		"lng":       {"-75.1652"},
		"radius":    {"25"},
		"category":  {"running"},
		"startDate": {now.Format("2006-01-02")},
		"endDate":   {now.Add(activeHorizon).Format("2006-01-02")},
		"pageSize":  {strconv.Itoa(activePageSize)},
		"pageNum":   {"1"},
	}

	page, err := fetchPage(ctx, a.client, activeAPI+"?"+params.Encode(),
		map[string]string{"Accept": "application/json"})
	if err == nil {
		return &RawDocument{Pages: []Page{page}}, nil
	}

	return fetchPages(ctx, a.client, []string{
		activeSearchURL,
		"https://www.active.com/local/philadelphia-pa/running",
	}, nil)
}

func (a *Active) Extract(doc *RawDocument) []Draft {
	seen := make(map[string]struct{})
	var drafts []Draft

	for _, p := range doc.Pages {
		items, ok := a.apiResults(p.Body)
		if ok {
			for _, item := range items {
				if d, found := a.parseItem(item, seen); found {
					drafts = append(drafts, d)
				}
			}
			continue
		}
		for _, d := range a.jsonld.Extract(p) {
			key := strings.ToLower(d.Title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			d.Category = domain.CategoryRunning
			drafts = append(drafts, d)
		}
	}
	return drafts
}

// apiResults reads the search response; the result list has moved
// between keys across API revisions.
func (a *Active) apiResults(body []byte) ([]map[string]any, bool) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	for _, key := range []string{"results", "data", "items"} {
		list := jsonList(payload, key)
		if list == nil {
			continue
		}
		items := make([]map[string]any, 0, len(list))
		for _, raw := range list {
			if m, ok := raw.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items, true
	}
	return nil, true
}

func (a *Active) parseItem(item map[string]any, seen map[string]struct{}) (Draft, bool) {
	title := cleanText(jsonStr(item, "title"))
	if title == "" {
		title = cleanText(jsonStr(item, "name"))
	}
	if title == "" {
		return Draft{}, false
	}

	key := strings.ToLower(title)
	if _, dup := seen[key]; dup {
		return Draft{}, false
	}

	dateText := ""
	for _, field := range []string{"startDate", "start_date", "activityStartDate", "date"} {
		if dateText = jsonStr(item, field); dateText != "" {
			break
		}
	}
	if dateText == "" {
		return Draft{}, false
	}
	seen[key] = struct{}{}

	location := cleanText(jsonStr(item, "location"))
	if location == "" {
		location = cleanText(jsonStr(item, "city"))
	}
	if location == "" {
		location = cleanText(jsonStr(jsonMap(item, "place"), "name"))
	}

	description := jsonStr(item, "description")
	if description == "" {
		description = jsonStr(item, "body")
	}

	eventURL := jsonStr(item, "url")
	if eventURL != "" && !strings.HasPrefix(eventURL, "http") {
		eventURL = "https://www.active.com" + eventURL
	}

	return Draft{
		Title:       title,
		Description: truncate(stripTags(description), 500),
		DateText:    dateText,
		Location:    location,
		Category:    domain.CategoryRunning,
		Price:       a.price(item),
		URL:         eventURL,
	}, true
}

func (a *Active) price(item map[string]any) string {
	raw := jsonStr(item, "price")
	if raw == "" {
		raw = jsonStr(item, "minPrice")
	}
	if raw == "" {
		return ""
	}
	v, err := strconv.ParseFloat(strings.NewReplacer("$", "", ",", "").Replace(raw), 64)
	if err != nil {
		return truncate(raw, 30)
	}
	if v == 0 {
		return "Free"
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
