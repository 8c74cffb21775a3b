package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"phillyevents/internal/config"
	"phillyevents/internal/models/domain"
	"phillyevents/internal/repositories"
	"phillyevents/internal/scraper"
	"phillyevents/internal/scraper/sites"
)

// syncScraper completes every job inline, no worker pool involved.
type syncScraper struct {
	results map[string]sites.RunResult
}

func (s *syncScraper) AddJob(requestID uuid.UUID, adapter sites.Adapter) (*scraper.Task, error) {
	task := &scraper.Task{Done: make(chan struct{})}
	task.Result = s.results[adapter.Config().Name]
	close(task.Done)
	return task, nil
}

// memorySink stores events in memory with the same identity rule as
// the Postgres repository.
type memorySink struct {
	stored map[string]domain.Event
	fail   bool
}

func newMemorySink() *memorySink {
	return &memorySink{stored: make(map[string]domain.Event)}
}

func (m *memorySink) AddEventsBatch(ctx context.Context, events []domain.Event) (repositories.BatchResult, error) {
	if m.fail {
		return repositories.BatchResult{}, fmt.Errorf("connection reset")
	}
	var res repositories.BatchResult
	for _, e := range events {
		key := e.IdentityKey()
		if _, dup := m.stored[key]; dup {
			res.Skipped++
			continue
		}
		m.stored[key] = e
		res.Added++
	}
	return res, nil
}

func (m *memorySink) DeleteOlderThan(ctx context.Context, now time.Time, days int) (int64, error) {
	cutoff := now.AddDate(0, 0, -days)
	var removed int64
	for key, e := range m.stored {
		if e.Start.Before(cutoff) {
			delete(m.stored, key)
			removed++
		}
	}
	return removed, nil
}

type namedAdapter struct{ name string }

func (a *namedAdapter) Config() sites.Config { return sites.Config{Name: a.name} }
func (a *namedAdapter) Fetch(ctx context.Context) (*sites.RawDocument, error) {
	return &sites.RawDocument{}, nil
}
func (a *namedAdapter) Extract(doc *sites.RawDocument) []sites.Draft { return nil }

func event(title, url string, start time.Time) domain.Event {
	return domain.Event{Title: title, SourceURL: url, Start: start, Category: domain.CategoryCommunity}
}

func testOrchestrator(t *testing.T, scr Scraper, sink Sink, adapters []sites.Adapter) *Orchestrator {
	t.Helper()
	cfg := &config.Config{
		Scraper: config.ScraperConfig{IntervalHours: 4, RetentionDays: 30},
	}
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, scr, sink, adapters, time.UTC, func() time.Time { return now })
}

func TestRunAllStoresAcrossFailedSources(t *testing.T) {
	start := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)
	scr := &syncScraper{results: map[string]sites.RunResult{
		// "broken" fetched nothing; its result is empty, not an error.
		"broken": {Source: "broken", Outcome: sites.OutcomeEmpty},
		"venue": {
			Source:  "venue",
			Outcome: sites.OutcomeSuccess,
			Events: []domain.Event{
				event("Show A", "https://venue.test/a", start),
				event("Show B", "https://venue.test/b", start.Add(24*time.Hour)),
			},
		},
	}}
	sink := newMemorySink()
	o := testOrchestrator(t, scr, sink, []sites.Adapter{
		&namedAdapter{name: "broken"},
		&namedAdapter{name: "venue"},
	})

	if err := o.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(sink.stored) != 2 {
		t.Fatalf("stored %d events, want 2", len(sink.stored))
	}
}

func TestRunAllIsIdempotent(t *testing.T) {
	start := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)
	scr := &syncScraper{results: map[string]sites.RunResult{
		"venue": {
			Source:  "venue",
			Outcome: sites.OutcomeSuccess,
			Events:  []domain.Event{event("Show A", "https://venue.test/a", start)},
		},
	}}
	sink := newMemorySink()
	o := testOrchestrator(t, scr, sink, []sites.Adapter{&namedAdapter{name: "venue"}})

	if err := o.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := o.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(sink.stored) != 1 {
		t.Fatalf("stored %d events, want 1 after identical cycles", len(sink.stored))
	}
}

func TestRunAllSurfacesSinkErrors(t *testing.T) {
	start := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)
	scr := &syncScraper{results: map[string]sites.RunResult{
		"venue": {
			Source:  "venue",
			Outcome: sites.OutcomeSuccess,
			Events:  []domain.Event{event("Show A", "https://venue.test/a", start)},
		},
	}}
	sink := newMemorySink()
	sink.fail = true
	o := testOrchestrator(t, scr, sink, []sites.Adapter{&namedAdapter{name: "venue"}})

	if err := o.RunAll(context.Background()); err == nil {
		t.Fatal("expected sink error to surface")
	}
}

func TestCleanupPurgesOldEvents(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	sink := newMemorySink()
	sink.stored["old"] = event("Old", "https://venue.test/old", now.AddDate(0, 0, -45))
	sink.stored["recent"] = event("Recent", "https://venue.test/recent", now.AddDate(0, 0, -5))

	o := testOrchestrator(t, &syncScraper{}, sink, nil)
	o.runCleanup()

	if _, kept := sink.stored["old"]; kept {
		t.Error("event past retention survived cleanup")
	}
	if _, kept := sink.stored["recent"]; !kept {
		t.Error("event inside retention was purged")
	}
}
