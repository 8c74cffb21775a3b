package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/models/repositories"

	"github.com/google/uuid"
)

// BatchResult summarizes one AddEventsBatch call.
type BatchResult struct {
	Added   int
	Skipped int
}

// AddEventsBatch inserts events that are not already stored. Identity
// follows the event's IdentityKey: source_url when present, otherwise
// title plus start. The whole batch runs under the write lock, so two
// overlapping ingest cycles cannot double-insert the same listing.
func (r *Repository) AddEventsBatch(ctx context.Context, events []domain.Event) (BatchResult, error) {
	op := "Repository.AddEventsBatch()"
	log := r.logger.With(
		slog.String("op", op),
	)

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	var res BatchResult
	for _, event := range events {
		exists, err := r.eventExists(ctx, event)
		if err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		if err := r.insertEvent(ctx, event); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.Added++
	}

	log.Debug("batch stored",
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (r *Repository) eventExists(ctx context.Context, event domain.Event) (bool, error) {
	var count int
	if event.SourceURL != "" {
		err := r.DB.GetContext(ctx, &count,
			`SELECT COUNT(1) FROM events WHERE source_url = $1`, event.SourceURL)
		return count > 0, err
	}
	err := r.DB.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM events WHERE title = $1 AND start_date = $2`,
		event.Title, event.Start)
	return count > 0, err
}

func (r *Repository) insertEvent(ctx context.Context, event domain.Event) error {
	repoEvent := mapToRepo(event)

	insertQuery := `INSERT INTO events (
		id, title, description, start_date, end_date, location,
		category, price, source, source_url, image_url,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := r.DB.ExecContext(ctx, insertQuery,
		repoEvent.ID,
		repoEvent.Title,
		repoEvent.Description,
		repoEvent.StartDate,
		repoEvent.EndDate,
		repoEvent.Location,
		repoEvent.Category,
		repoEvent.Price,
		repoEvent.Source,
		repoEvent.SourceURL,
		repoEvent.ImageURL,
	)
	return err
}

const eventColumns = `id, title, description, start_date, end_date, location, category, price, source, source_url, image_url, created_at, updated_at`

// FindUpcoming returns events starting at or after now, soonest first.
func (r *Repository) FindUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Event, error) {
	var repoEvents []repositories.Event
	query := `SELECT ` + eventColumns + `
	          FROM events WHERE start_date >= $1 ORDER BY start_date ASC LIMIT $2`

	err := r.DB.SelectContext(ctx, &repoEvents, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("error in FindUpcoming(): %w", err)
	}
	return mapAllToDomain(repoEvents), nil
}

// FindByCategory returns upcoming events in one category.
func (r *Repository) FindByCategory(ctx context.Context, category domain.Category, now time.Time, limit int) ([]domain.Event, error) {
	var repoEvents []repositories.Event
	query := `SELECT ` + eventColumns + `
	          FROM events WHERE category = $1 AND start_date >= $2 ORDER BY start_date ASC LIMIT $3`

	err := r.DB.SelectContext(ctx, &repoEvents, query, string(category), now, limit)
	if err != nil {
		return nil, fmt.Errorf("error in FindByCategory(): %w", err)
	}
	return mapAllToDomain(repoEvents), nil
}

// Search matches the term against titles, descriptions, and locations
// of upcoming events.
func (r *Repository) Search(ctx context.Context, term string, now time.Time, limit int) ([]domain.Event, error) {
	var repoEvents []repositories.Event
	query := `SELECT ` + eventColumns + `
	          FROM events
	          WHERE start_date >= $2
	            AND (title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1)
	          ORDER BY start_date ASC LIMIT $3`

	pattern := "%" + escapeLike(term) + "%"
	err := r.DB.SelectContext(ctx, &repoEvents, query, pattern, now, limit)
	if err != nil {
		return nil, fmt.Errorf("error in Search(): %w", err)
	}
	return mapAllToDomain(repoEvents), nil
}

// DeleteOlderThan purges events whose start is more than the given
// number of days in the past. Returns the number of rows removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, now time.Time, days int) (int64, error) {
	cutoff := now.AddDate(0, 0, -days)

	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE start_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error in DeleteOlderThan(): %w", err)
	}
	return result.RowsAffected()
}

// SourceCount is one row of the per-source statistics.
type SourceCount struct {
	Source string `db:"source"`
	Count  int    `db:"count"`
}

// Stats reports the total number of stored events and the per-source
// breakdown.
func (r *Repository) Stats(ctx context.Context) (int, []SourceCount, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(1) FROM events`); err != nil {
		return 0, nil, fmt.Errorf("error in Stats(): %w", err)
	}

	var counts []SourceCount
	query := `SELECT source, COUNT(1) AS count FROM events GROUP BY source ORDER BY count DESC`
	if err := r.DB.SelectContext(ctx, &counts, query); err != nil {
		return 0, nil, fmt.Errorf("error in Stats(): %w", err)
	}
	return total, counts, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied terms.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func mapToRepo(e domain.Event) repositories.Event {
	repoEvent := repositories.Event{
		BaseModel: repositories.BaseModel{
			ID: e.ID,
		},
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.Start,
		Location:    e.Location,
		Category:    string(e.Category),
		Price:       e.Price,
		Source:      e.Source,
		SourceURL:   e.SourceURL,
		ImageURL:    e.ImageURL,
	}
	if e.End != nil {
		repoEvent.EndDate.Valid = true
		repoEvent.EndDate.Time = *e.End
	}
	return repoEvent
}

func mapToDomain(e repositories.Event) domain.Event {
	event := domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.StartDate,
		Location:    e.Location,
		Category:    domain.Category(e.Category),
		Price:       e.Price,
		Source:      e.Source,
		SourceURL:   e.SourceURL,
		ImageURL:    e.ImageURL,
	}
	if e.EndDate.Valid {
		end := e.EndDate.Time
		event.End = &end
	}
	return event
}

func mapAllToDomain(repoEvents []repositories.Event) []domain.Event {
	result := make([]domain.Event, len(repoEvents))
	for i, e := range repoEvents {
		result[i] = mapToDomain(e)
	}
	return result
}
