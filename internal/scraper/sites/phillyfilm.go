package sites

import (
	"context"
	"net/http"

	"phillyevents/internal/models/domain"
)

// filmadelphia.org answers 403 to anything that is not a browser, so
// film listings come from the Philadelphia Film Society's Eventbrite
// organizer page plus Eventbrite's Philadelphia film directories.
var phillyFilmURLs = []string{
	"https://www.eventbrite.com/o/philadelphia-film-society-73119306203",
	"https://www.eventbrite.com/d/pa--philadelphia/film/",
	"https://www.eventbrite.com/d/pa--philadelphia/film--screening/",
}

// PhillyFilm collects screenings, premieres and festival showings.
type PhillyFilm struct {
	client *http.Client
	jsonld *JSONLD
}

func NewPhillyFilm(client *http.Client) *PhillyFilm {
	return &PhillyFilm{
		client: client,
		jsonld: &JSONLD{Types: []string{"ScreeningEvent", "MusicEvent"}},
	}
}

func (f *PhillyFilm) Config() Config {
	return Config{
		Name:            "Philadelphia Film Events",
		URL:             "https://filmadelphia.org/events/",
		DefaultCategory: domain.CategoryArtsAndCulture,
		DefaultLocation: "Philadelphia Film Society, Philadelphia, PA",
	}
}

func (f *PhillyFilm) Fetch(ctx context.Context) (*RawDocument, error) {
	headers := map[string]string{"Accept-Language": "en-US,en;q=0.9"}
	return fetchPages(ctx, f.client, phillyFilmURLs, headers)
}

func (f *PhillyFilm) Extract(doc *RawDocument) []Draft {
	seen := make(map[string]struct{})
	var drafts []Draft

	for _, p := range doc.Pages {
		for _, d := range f.jsonld.Extract(p) {
			// The organizer page and the directories overlap heavily.
			if _, dup := seen[d.Title]; dup {
				continue
			}
			seen[d.Title] = struct{}{}
			d.Category = domain.CategoryArtsAndCulture
			drafts = append(drafts, d)
		}
	}
	return drafts
}
