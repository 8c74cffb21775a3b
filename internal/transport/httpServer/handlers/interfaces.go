package handlers

import (
	"context"
	"time"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/repositories"
)

// EventRepository is the read surface the handlers need.
type EventRepository interface {
	FindUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Event, error)
	FindByCategory(ctx context.Context, category domain.Category, now time.Time, limit int) ([]domain.Event, error)
	Search(ctx context.Context, term string, now time.Time, limit int) ([]domain.Event, error)
	Stats(ctx context.Context) (int, []repositories.SourceCount, error)
}

// EventOrchestrator triggers ingest cycles on demand.
type EventOrchestrator interface {
	TriggerRun()
}
