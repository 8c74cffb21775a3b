package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/repositories"
	"phillyevents/internal/transport/httpServer/handlers/dto"
)

type fakeRepo struct {
	upcoming   []domain.Event
	byCategory map[domain.Category][]domain.Event
	searched   string
	lastLimit  int
}

func (f *fakeRepo) FindUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Event, error) {
	f.lastLimit = limit
	return f.upcoming, nil
}

func (f *fakeRepo) FindByCategory(ctx context.Context, category domain.Category, now time.Time, limit int) ([]domain.Event, error) {
	f.lastLimit = limit
	return f.byCategory[category], nil
}

func (f *fakeRepo) Search(ctx context.Context, term string, now time.Time, limit int) ([]domain.Event, error) {
	f.searched = term
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (int, []repositories.SourceCount, error) {
	return 42, []repositories.SourceCount{{Source: "Do215", Count: 30}, {Source: "MilkBoy Philadelphia", Count: 12}}, nil
}

type fakeOrchestrator struct {
	triggered int
}

func (f *fakeOrchestrator) TriggerRun() { f.triggered++ }

func newTestHandler(repo *fakeRepo, orch *fakeOrchestrator) *EventHandler {
	return NewEventHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, orch)
}

func TestGetEventsDefault(t *testing.T) {
	repo := &fakeRepo{upcoming: []domain.Event{
		{Title: "Show", Category: domain.CategoryMusic, Start: time.Now().Add(time.Hour)},
	}}
	h := newTestHandler(repo, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Show" {
		t.Fatalf("body = %+v", got)
	}
	if repo.lastLimit != defaultLimit {
		t.Errorf("limit = %d, want default", repo.lastLimit)
	}
}

func TestGetEventsCategoryFilter(t *testing.T) {
	repo := &fakeRepo{byCategory: map[domain.Category][]domain.Event{
		domain.CategoryRunning: {{Title: "Sunrise 5K", Category: domain.CategoryRunning}},
	}}
	h := newTestHandler(repo, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?category=running", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Sunrise 5K" {
		t.Fatalf("body = %+v", got)
	}
}

func TestGetEventsRejectsUnknownCategory(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?category=sports", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetEventsLimitClamped(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(repo, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?limit=9999", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.lastLimit != maxLimit {
		t.Errorf("limit = %d, want clamp to %d", repo.lastLimit, maxLimit)
	}
}

func TestGetEventsSearch(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(repo, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?search=jazz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.searched != "jazz" {
		t.Errorf("search term = %q", repo.searched)
	}
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(&fakeRepo{}, &fakeOrchestrator{})

	rec := httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got dto.StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 42 || len(got.Sources) != 2 {
		t.Fatalf("body = %+v", got)
	}
}

func TestTriggerScrapeAccepted(t *testing.T) {
	orch := &fakeOrchestrator{}
	h := newTestHandler(&fakeRepo{}, orch)

	rec := httptest.NewRecorder()
	h.TriggerScrape(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scrape", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if orch.triggered != 1 {
		t.Errorf("triggered = %d", orch.triggered)
	}
}
