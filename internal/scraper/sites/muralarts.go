package sites

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"phillyevents/internal/models/domain"
)

// muralEventsRes match the calendar array the page assigns to a JS
// variable. The page has no API and no structured markup.
var muralEventsRes = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.events\s*=\s*(\[.*?\]);`),
	regexp.MustCompile(`(?s)var events\s*=\s*(\[.*?\]);`),
}

// MuralArts scrapes muralarts.org, whose calendar ships as a JSON
// array embedded in page JavaScript.
type MuralArts struct {
	client *http.Client
}

func NewMuralArts(client *http.Client) *MuralArts {
	return &MuralArts{client: client}
}

func (m *MuralArts) Config() Config {
	return Config{
		Name:            "Mural Arts Philadelphia",
		URL:             "https://muralarts.org/events/",
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: "Philadelphia, PA",
	}
}

func (m *MuralArts) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, m.client, []string{m.Config().URL}, nil)
}

func (m *MuralArts) Extract(doc *RawDocument) []Draft {
	var drafts []Draft

	for _, p := range doc.Pages {
		items := m.embeddedEvents(p.Body)
		for _, item := range items {
			title := cleanText(jsonStr(item, "title"))
			if title == "" {
				continue
			}

			dateText := jsonStr(item, "start")
			if dateText == "" {
				dateText = jsonStr(item, "date")
			}

			imageURL := jsonStr(item, "thumbnail")
			if imageURL == "" {
				imageURL = jsonStr(item, "image")
			}

			drafts = append(drafts, Draft{
				Title:    title,
				DateText: dateText,
				TimeText: jsonStr(item, "time"),
				EndText:  jsonStr(item, "end"),
				Category: domain.CategoryArtsAndCulture,
				URL:      absURL("https://muralarts.org", jsonStr(item, "url")),
				ImageURL: imageURL,
			})
		}
	}
	return drafts
}

func (m *MuralArts) embeddedEvents(body []byte) []map[string]any {
	for _, re := range muralEventsRes {
		match := re.FindSubmatch(body)
		if match == nil {
			continue
		}
		var items []map[string]any
		if err := json.Unmarshal(match[1], &items); err != nil {
			continue
		}
		return items
	}
	return nil
}
