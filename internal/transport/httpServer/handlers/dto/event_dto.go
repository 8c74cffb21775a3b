package dto

import (
	"time"

	"phillyevents/internal/models/domain"

	"github.com/google/uuid"
)

// EventResponse is the public API shape of a catalog event.
type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	Price       string     `json:"price,omitempty"`
	Source      string     `json:"source"`
	SourceURL   string     `json:"source_url"`
	ImageURL    string     `json:"image_url,omitempty"`
}

// StatsResponse reports catalog size per source.
type StatsResponse struct {
	Total   int           `json:"total"`
	Sources []SourceStats `json:"sources"`
}

type SourceStats struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// ScrapeResponse acknowledges a manual ingest trigger.
type ScrapeResponse struct {
	Status string `json:"status"`
}

func MapDomainToEventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.Start,
		EndDate:     e.End,
		Location:    e.Location,
		Category:    string(e.Category),
		Price:       e.Price,
		Source:      e.Source,
		SourceURL:   e.SourceURL,
		ImageURL:    e.ImageURL,
	}
}

func MapDomainToEventResponseList(events []domain.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = MapDomainToEventResponse(e)
	}
	return result
}
