package sites

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/scraper/dates"
)

func testPipeline(t *testing.T) (*Pipeline, time.Time) {
	t.Helper()
	norm := dates.New("America/New_York", 10)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, norm.Location())
	return &Pipeline{Dates: norm, Region: "PA", Now: func() time.Time { return now }}, now
}

func testConfig() Config {
	return Config{
		Name:            "Test Venue",
		URL:             "https://venue.test/events",
		DefaultCategory: domain.CategoryCommunity,
		DefaultLocation: "Test Venue, Philadelphia, PA",
	}
}

func TestNormalizeFillsFallbacks(t *testing.T) {
	p, _ := testPipeline(t)

	event, ok := p.Normalize(Draft{
		Title:    "  Neighborhood  Gathering ",
		DateText: "2026-06-20",
	}, testConfig(), p.Now())
	if !ok {
		t.Fatal("draft dropped")
	}

	want := domain.Event{
		Title:    "Neighborhood Gathering",
		Start:    time.Date(2026, 6, 20, 10, 0, 0, 0, p.Dates.Location()),
		Location: "Test Venue, Philadelphia, PA",
		Category: domain.CategoryCommunity,
		Source:   "Test Venue",
		// Listings without their own link point at the landing page.
		SourceURL: "https://venue.test/events",
	}
	if diff := cmp.Diff(want, event); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDrops(t *testing.T) {
	p, now := testPipeline(t)
	cfg := testConfig()

	tests := []struct {
		name  string
		draft Draft
	}{
		{"empty title", Draft{DateText: "2026-06-20"}},
		{"unparseable date", Draft{Title: "Event", DateText: "sometime soon"}},
		{"past start", Draft{Title: "Event", DateText: "2025-06-20"}},
		{"already started today", Draft{Title: "Event", Start: now.Add(-time.Hour)}},
		{"wrong region", Draft{Title: "Event", DateText: "2026-06-20", Region: "NJ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := p.Normalize(tt.draft, cfg, now); ok {
				t.Errorf("draft survived: %+v", tt.draft)
			}
		})
	}
}

func TestNormalizeRegion(t *testing.T) {
	p, now := testPipeline(t)
	cfg := testConfig()

	for _, region := range []string{"PA", "pa", "Pennsylvania", ""} {
		draft := Draft{Title: "Event", DateText: "2026-06-20", Region: region}
		if _, ok := p.Normalize(draft, cfg, now); !ok {
			t.Errorf("region %q dropped", region)
		}
	}

	// The configured side normalizes too.
	p.Region = "pa"
	draft := Draft{Title: "Event", DateText: "2026-06-20", Region: "PA"}
	if _, ok := p.Normalize(draft, cfg, now); !ok {
		t.Error("lowercase configured region dropped a matching listing")
	}
	draft.Region = "NJ"
	if _, ok := p.Normalize(draft, cfg, now); ok {
		t.Error("lowercase configured region accepted a mismatch")
	}
}

func TestNormalizeCategoryResolution(t *testing.T) {
	p, now := testPipeline(t)
	cfg := testConfig()

	tests := []struct {
		name  string
		draft Draft
		want  domain.Category
	}{
		{
			name:  "source tag wins",
			draft: Draft{Title: "Beer Garden Opening", Category: domain.CategoryMusic, DateText: "2026-06-20"},
			want:  domain.CategoryMusic,
		},
		{
			name:  "keyword match",
			draft: Draft{Title: "Sunset 5K", DateText: "2026-06-20"},
			want:  domain.CategoryRunning,
		},
		{
			name:  "draft fallback over adapter default",
			draft: Draft{Title: "Quarterly Summit", DefaultCategory: domain.CategoryBusiness, DateText: "2026-06-20"},
			want:  domain.CategoryBusiness,
		},
		{
			name:  "adapter default",
			draft: Draft{Title: "Quarterly Summit", DateText: "2026-06-20"},
			want:  domain.CategoryCommunity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := p.Normalize(tt.draft, cfg, now)
			if !ok {
				t.Fatal("draft dropped")
			}
			if event.Category != tt.want {
				t.Errorf("category = %q, want %q", event.Category, tt.want)
			}
		})
	}
}

func TestNormalizeMergesClock(t *testing.T) {
	p, now := testPipeline(t)

	event, ok := p.Normalize(Draft{
		Title:    "Evening Show",
		DateText: "2026-06-20",
		TimeText: "7:30 PM",
	}, testConfig(), now)
	if !ok {
		t.Fatal("draft dropped")
	}
	if event.Start.Hour() != 19 || event.Start.Minute() != 30 {
		t.Errorf("start = %v, want 19:30", event.Start)
	}
}

// fakeAdapter drives Run without touching the network.
type fakeAdapter struct {
	cfg      Config
	drafts   []Draft
	fetchErr error
}

func (f *fakeAdapter) Config() Config { return f.cfg }

func (f *fakeAdapter) Fetch(ctx context.Context) (*RawDocument, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &RawDocument{Pages: []Page{{URL: f.cfg.URL}}}, nil
}

func (f *fakeAdapter) Extract(doc *RawDocument) []Draft { return f.drafts }

func TestRunOutcomes(t *testing.T) {
	p, _ := testPipeline(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		adapter *fakeAdapter
		want    Outcome
		events  int
	}{
		{
			name:    "fetch failure is contained",
			adapter: &fakeAdapter{cfg: testConfig(), fetchErr: fmt.Errorf("connection refused")},
			want:    OutcomeEmpty,
		},
		{
			name: "all drafts survive",
			adapter: &fakeAdapter{cfg: testConfig(), drafts: []Draft{
				{Title: "One", DateText: "2026-06-20"},
				{Title: "Two", DateText: "2026-06-21"},
			}},
			want:   OutcomeSuccess,
			events: 2,
		},
		{
			name: "partial survival",
			adapter: &fakeAdapter{cfg: testConfig(), drafts: []Draft{
				{Title: "Good", DateText: "2026-06-20"},
				{Title: "", DateText: "2026-06-21"},
			}},
			want:   OutcomePartial,
			events: 1,
		},
		{
			name:    "nothing extracted",
			adapter: &fakeAdapter{cfg: testConfig()},
			want:    OutcomeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Run(context.Background(), tt.adapter, log)
			if res.Outcome != tt.want {
				t.Errorf("outcome = %q, want %q", res.Outcome, tt.want)
			}
			if len(res.Events) != tt.events {
				t.Errorf("events = %d, want %d", len(res.Events), tt.events)
			}
		})
	}
}
