package sites

import (
	"context"
	"net/http"

	"phillyevents/internal/models/domain"
)

// MilkBoy scrapes the MilkBoy Philadelphia calendar. The venue ships
// clean JSON-LD, one Event block per show.
type MilkBoy struct {
	client *http.Client
	chain  Chain
}

func NewMilkBoy(client *http.Client) *MilkBoy {
	return &MilkBoy{client: client, chain: Chain{&JSONLD{}}}
}

func (m *MilkBoy) Config() Config {
	return Config{
		Name:            "MilkBoy Philadelphia",
		URL:             "https://milkboyphilly.com/events",
		DefaultCategory: domain.CategoryMusic,
		DefaultLocation: "MilkBoy Philadelphia, 1100 Chestnut St, Philadelphia, PA",
	}
}

func (m *MilkBoy) Fetch(ctx context.Context) (*RawDocument, error) {
	return fetchPages(ctx, m.client, []string{m.Config().URL}, nil)
}

func (m *MilkBoy) Extract(doc *RawDocument) []Draft {
	drafts := m.chain.Extract(doc)
	for i := range drafts {
		drafts[i].Category = domain.CategoryMusic
	}
	return drafts
}
