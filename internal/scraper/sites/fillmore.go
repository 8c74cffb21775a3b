package sites

import (
	"context"
	"net/http"

	"phillyevents/internal/models/domain"
)

// Fillmore scrapes The Fillmore Philadelphia show calendar. The page
// carries JSON-LD on good days; otherwise event data is buried in a
// Next.js RSC stream, which the script scan digs out.
type Fillmore struct {
	client *http.Client
	chain  Chain
}

func NewFillmore(client *http.Client) *Fillmore {
	return &Fillmore{
		client: client,
		chain: Chain{
			&JSONLD{},
			&ScriptScan{
				NameRe: matcher(`"name"\s*:\s*"([^"]{3,100})"`),
				DateRe: matcher(`"startDate"\s*:\s*"(\d{4}-\d{2}-\d{2}T[^"]+)"`),
				URLRe:  matcher(`"url"\s*:\s*"(https://www\.thefillmorephilly\.com/[^"]+)"`),
				SkipNames: []string{
					"The Fillmore Philadelphia",
					"Fillmore Philadelphia",
					"The Fillmore",
				},
			},
		},
	}
}

func (f *Fillmore) Config() Config {
	return Config{
		Name:            "The Fillmore Philadelphia",
		URL:             "https://www.thefillmorephilly.com/shows",
		DefaultCategory: domain.CategoryMusic,
		DefaultLocation: "The Fillmore Philadelphia, 29 E Allen St, Philadelphia, PA",
	}
}

func (f *Fillmore) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, f.client, []string{f.Config().URL}, nil)
}

func (f *Fillmore) Extract(doc *RawDocument) []Draft {
	drafts := f.chain.Extract(doc)
	for i := range drafts {
		drafts[i].Category = domain.CategoryMusic
	}
	return drafts
}
