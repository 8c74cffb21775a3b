package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/transport/httpServer/handlers/dto"
	"phillyevents/internal/utils"
	"phillyevents/internal/utils/logger/sl"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type EventHandler struct {
	repository        EventRepository
	eventOrchestrator EventOrchestrator
	log               *slog.Logger
	now               func() time.Time
}

func NewEventHandler(log *slog.Logger, repo EventRepository, eventOrchestrator EventOrchestrator) *EventHandler {
	return &EventHandler{
		repository:        repo,
		eventOrchestrator: eventOrchestrator,
		log:               log,
		now:               time.Now,
	}
}

// GetEvents handles GET /api/v1/events?category=...&search=...&limit=...
// Without filters it returns all upcoming events, soonest first.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	ctx := r.Context()
	now := h.now()

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(log, fmt.Errorf("invalid limit: %s", raw), w, http.StatusBadRequest)
			return
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	var events []domain.Event
	var err error

	switch {
	case r.URL.Query().Get("category") != "":
		raw := r.URL.Query().Get("category")
		category, ok := domain.ParseCategory(raw)
		if !ok {
			h.respondError(log, fmt.Errorf("invalid category filter: %s", raw), w, http.StatusBadRequest)
			return
		}
		events, err = h.repository.FindByCategory(ctx, category, now, limit)
	case r.URL.Query().Get("search") != "":
		events, err = h.repository.Search(ctx, r.URL.Query().Get("search"), now, limit)
	default:
		events, err = h.repository.FindUpcoming(ctx, now, limit)
	}

	if err != nil {
		h.respondError(log, fmt.Errorf("failed to get events: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := dto.MapDomainToEventResponseList(events)

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetStats handles GET /api/v1/stats
func (h *EventHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetStats()"
	log := h.log.With(slog.String("op", op))

	total, counts, err := h.repository.Stats(r.Context())
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to get stats: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := dto.StatsResponse{Total: total}
	for _, c := range counts {
		response.Sources = append(response.Sources, dto.SourceStats{Source: c.Source, Count: c.Count})
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// TriggerScrape handles POST /api/v1/scrape. The cycle runs in the
// background; the response only acknowledges the trigger.
func (h *EventHandler) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.TriggerScrape()"
	log := h.log.With(slog.String("op", op))

	log.Info("manual scrape triggered")
	h.eventOrchestrator.TriggerRun()

	if err := utils.Json(w, http.StatusAccepted, dto.ScrapeResponse{Status: "scraping started"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *EventHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
