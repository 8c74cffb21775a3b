package sites

import (
	"context"
	"encoding/json"
	"net/http"

	"phillyevents/internal/models/domain"
)

// magicGardensAPI is the site's WordPress REST endpoint for the
// Easy Events custom post type.
const magicGardensAPI = "https://www.phillymagicgardens.org/wp-json/wp/v2/yks_ee_events?per_page=50&orderby=date&order=asc"

// MagicGardens pulls Philadelphia's Magic Gardens events from the WP
// REST API. Date fields vary between ACF, meta, and the post date
// depending on how each event was authored.
type MagicGardens struct {
	client *http.Client
}

func NewMagicGardens(client *http.Client) *MagicGardens {
	return &MagicGardens{client: client}
}

func (m *MagicGardens) Config() Config {
	return Config{
		Name:            "Philadelphia Magic Gardens",
		URL:             "https://www.phillymagicgardens.org/events/",
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: "Philadelphia Magic Gardens, 1020 South St, Philadelphia, PA",
	}
}

func (m *MagicGardens) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, m.client, []string{magicGardensAPI}, map[string]string{"Accept": "application/json"})
}

func (m *MagicGardens) Extract(doc *RawDocument) []Draft {
	var drafts []Draft

	for _, p := range doc.Pages {
		var posts []map[string]any
		if err := json.Unmarshal(p.Body, &posts); err != nil {
			continue
		}

		for _, post := range posts {
			title := stripTags(jsonStr(jsonMap(post, "title"), "rendered"))
			if title == "" {
				continue
			}

			desc := jsonStr(jsonMap(post, "excerpt"), "rendered")
			if desc == "" {
				desc = jsonStr(jsonMap(post, "content"), "rendered")
			}

			drafts = append(drafts, Draft{
				Title:       title,
				Description: truncate(stripTags(desc), 400),
				DateText:    m.postDate(post),
				Category:    domain.CategoryArtsAndCulture,
				URL:         jsonStr(post, "link"),
				ImageURL:    m.featuredImage(post),
			})
		}
	}
	return drafts
}

// postDate probes the date field names Easy Events and ACF use before
// falling back to the publish date.
func (m *MagicGardens) postDate(post map[string]any) string {
	for _, source := range []map[string]any{jsonMap(post, "acf"), jsonMap(post, "meta")} {
		if source == nil {
			continue
		}
		for _, key := range []string{"event_date", "start_date"} {
			if v := jsonStr(source, key); v != "" {
				return v
			}
		}
	}
	return jsonStr(post, "date")
}

func (m *MagicGardens) featuredImage(post map[string]any) string {
	embedded := jsonMap(post, "_embedded")
	if embedded == nil {
		return ""
	}
	media := jsonList(embedded, "wp:featuredmedia")
	if len(media) == 0 {
		return ""
	}
	first, ok := media[0].(map[string]any)
	if !ok {
		return ""
	}
	return jsonStr(first, "source_url")
}
