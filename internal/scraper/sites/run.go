package sites

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"phillyevents/internal/models/domain"
	"phillyevents/internal/scraper/categorize"
	"phillyevents/internal/scraper/dates"
	"phillyevents/internal/utils/logger/sl"
)

// Outcome is the terminal state of one adapter invocation.
type Outcome string

const (
	// OutcomeSuccess - every extracted draft became an event.
	OutcomeSuccess Outcome = "success"
	// OutcomeEmpty - fetch or extraction produced nothing. Non-fatal.
	OutcomeEmpty Outcome = "empty"
	// OutcomePartial - some drafts were dropped, the rest survived.
	OutcomePartial Outcome = "partial"
)

// RunResult aggregates one adapter invocation.
type RunResult struct {
	Source  string
	Events  []domain.Event
	Scraped int
	Skipped int
	Outcome Outcome
}

// Pipeline turns adapter drafts into canonical events: normalize the
// date, enforce the region, resolve the category, fill fallbacks.
type Pipeline struct {
	Dates  *dates.Normalizer
	Region string
	Now    func() time.Time
}

// Run executes one adapter end to end. Fetch errors never propagate:
// they log a warning and yield an empty result, so one broken source
// cannot stall the rest of a cycle.
func (p *Pipeline) Run(ctx context.Context, a Adapter, log *slog.Logger) RunResult {
	cfg := a.Config()
	res := RunResult{Source: cfg.Name, Outcome: OutcomeEmpty}
	log = log.With(slog.String("source", cfg.Name))

	doc, err := a.Fetch(ctx)
	if err != nil {
		log.Warn("fetch failed", sl.Err(err))
		return res
	}
	if doc == nil || len(doc.Pages) == 0 {
		log.Warn("fetch returned no pages")
		return res
	}

	drafts := a.Extract(doc)
	res.Scraped = len(drafts)
	if len(drafts) == 0 {
		log.Warn("no listings extracted", slog.Int("pages", len(doc.Pages)))
		return res
	}

	now := p.Now()
	for _, d := range drafts {
		event, ok := p.Normalize(d, cfg, now)
		if !ok {
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, event)
	}

	switch {
	case len(res.Events) == 0:
		res.Outcome = OutcomeEmpty
	case res.Skipped > 0:
		res.Outcome = OutcomePartial
	default:
		res.Outcome = OutcomeSuccess
	}

	log.Info("source scraped",
		slog.Int("scraped", res.Scraped),
		slog.Int("kept", len(res.Events)),
		slog.Int("skipped", res.Skipped),
		slog.String("outcome", string(res.Outcome)),
	)
	return res
}

// Normalize validates one draft and produces a canonical event.
// ok=false drops the single draft, never the batch.
func (p *Pipeline) Normalize(d Draft, cfg Config, now time.Time) (domain.Event, bool) {
	title := cleanText(d.Title)
	if title == "" {
		return domain.Event{}, false
	}

	start := d.Start
	if start.IsZero() {
		var ok bool
		start, ok = p.Dates.Parse(d.DateText, now)
		if !ok {
			return domain.Event{}, false
		}
	} else {
		start = start.In(p.Dates.Location())
	}
	if d.TimeText != "" {
		start = p.Dates.ApplyClock(start, d.TimeText)
	}
	// Listings that already started are history, not catalog entries.
	if !start.After(now) {
		return domain.Event{}, false
	}

	if d.Region != "" && !regionMatches(d.Region, p.Region) {
		return domain.Event{}, false
	}

	var end *time.Time
	if d.EndText != "" {
		if e, ok := p.Dates.Parse(d.EndText, now); ok {
			end = &e
		}
	}

	category := d.Category
	if !category.Valid() {
		fallback := d.DefaultCategory
		if !fallback.Valid() {
			fallback = cfg.DefaultCategory
		}
		category = categorize.Categorize(title+" "+d.Description, fallback)
		if !category.Valid() {
			category = domain.CategoryCommunity
		}
	}

	location := cleanText(d.Location)
	if location == "" {
		location = cfg.DefaultLocation
	}

	sourceURL := strings.TrimSpace(d.URL)
	if sourceURL == "" {
		sourceURL = cfg.URL
	}

	return domain.Event{
		Title:       title,
		Description: cleanText(d.Description),
		Start:       start,
		End:         end,
		Location:    location,
		Category:    category,
		Price:       d.Price,
		Source:      cfg.Name,
		SourceURL:   sourceURL,
		ImageURL:    strings.TrimSpace(d.ImageURL),
	}, true
}

func regionMatches(got, want string) bool {
	got = strings.ToUpper(strings.TrimSpace(got))
	want = strings.ToUpper(strings.TrimSpace(want))
	switch got {
	case want, "":
		return true
	}
	// Sources spell Pennsylvania out occasionally.
	return want == "PA" && got == "PENNSYLVANIA"
}
