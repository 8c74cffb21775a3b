package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"phillyevents/internal/config"
	"phillyevents/internal/models/domain"
	"phillyevents/internal/repositories"
	"phillyevents/internal/scraper"
	"phillyevents/internal/scraper/sites"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// cleanupSpec runs retention while the catalog is quiet.
const cleanupSpec = "0 3 * * *"

// Scraper is the worker pool the orchestrator feeds.
type Scraper interface {
	AddJob(requestID uuid.UUID, adapter sites.Adapter) (*scraper.Task, error)
}

// Sink receives the aggregated batch of every ingest cycle.
type Sink interface {
	AddEventsBatch(ctx context.Context, events []domain.Event) (repositories.BatchResult, error)
	DeleteOlderThan(ctx context.Context, now time.Time, days int) (int64, error)
}

// Orchestrator drives the ingest pipeline: fan adapters out to the
// scraper pool, gather their results, store one batch. Adapter
// failures stay inside their RunResult; only sink failures surface.
type Orchestrator struct {
	logger   *slog.Logger
	cfg      *config.Config
	scraper  Scraper
	sink     Sink
	adapters []sites.Adapter
	now      func() time.Time
	cron     *cron.Cron

	// runMu keeps ingest cycles from overlapping. A cycle that finds
	// the lock held is skipped, not queued.
	runMu        sync.Mutex
	shutdownChan chan struct{}
}

func New(
	logger *slog.Logger,
	cfg *config.Config,
	scraperService Scraper,
	sink Sink,
	adapters []sites.Adapter,
	loc *time.Location,
	now func() time.Time,
) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("Creating orchestrator", slog.Int("adapters", len(adapters)))

	return &Orchestrator{
		logger:       logger,
		cfg:          cfg,
		scraper:      scraperService,
		sink:         sink,
		adapters:     adapters,
		now:          now,
		cron:         cron.New(cron.WithLocation(loc)),
		shutdownChan: make(chan struct{}),
	}
}

// Start schedules the periodic ingest and retention jobs and kicks off
// one ingest immediately so a fresh deployment is not empty until the
// first tick.
func (o *Orchestrator) Start() {
	op := "Orchestrator.Start()"
	log := o.logger.With(slog.String("op", op))

	ingestSpec := fmt.Sprintf("@every %dh", o.cfg.Scraper.IntervalHours)
	if _, err := o.cron.AddFunc(ingestSpec, func() { o.runScheduled("ingest") }); err != nil {
		log.Error("failed to schedule ingest", slog.String("error", err.Error()))
	}
	if _, err := o.cron.AddFunc(cleanupSpec, func() { o.runCleanup() }); err != nil {
		log.Error("failed to schedule cleanup", slog.String("error", err.Error()))
	}
	o.cron.Start()

	log.Info("orchestrator started",
		slog.String("ingestSchedule", ingestSpec),
		slog.String("cleanupSchedule", cleanupSpec),
	)

	go o.runScheduled("startup")
}

func (o *Orchestrator) runScheduled(reason string) {
	op := "Orchestrator.runScheduled()"
	log := o.logger.With(
		slog.String("op", op),
		slog.String("reason", reason),
	)

	select {
	case <-o.shutdownChan:
		return
	default:
	}

	if err := o.RunAll(context.Background()); err != nil {
		log.Error("ingest cycle failed", slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) runCleanup() {
	op := "Orchestrator.runCleanup()"
	log := o.logger.With(slog.String("op", op))

	removed, err := o.sink.DeleteOlderThan(context.Background(), o.now(), o.cfg.Scraper.RetentionDays)
	if err != nil {
		log.Error("cleanup failed", slog.String("error", err.Error()))
		return
	}
	log.Info("cleanup completed",
		slog.Int64("removed", removed),
		slog.Int("retentionDays", o.cfg.Scraper.RetentionDays),
	)
}

// TriggerRun starts one ingest cycle in the background. Used by the
// manual HTTP trigger; the caller gets an immediate acknowledgement.
func (o *Orchestrator) TriggerRun() {
	go o.runScheduled("manual")
}

// RunAll executes one full ingest cycle and blocks until it is stored.
// An already-running cycle makes this a no-op.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	op := "Orchestrator.RunAll()"
	log := o.logger.With(slog.String("op", op))

	if !o.runMu.TryLock() {
		log.Warn("ingest cycle already running, skipping")
		return nil
	}
	defer o.runMu.Unlock()

	started := o.now()
	log.Info("ingest cycle started", slog.Int("adapters", len(o.adapters)))

	tasks := make([]*scraper.Task, 0, len(o.adapters))
	for _, adapter := range o.adapters {
		task, err := o.scraper.AddJob(uuid.New(), adapter)
		if err != nil {
			// A full buffer or a shutdown loses this source until the
			// next cycle; the rest still run.
			log.Error("failed to enqueue adapter",
				slog.String("source", adapter.Config().Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		tasks = append(tasks, task)
	}

	var batch []domain.Event
	for _, task := range tasks {
		select {
		case <-task.Done:
		case <-o.shutdownChan:
			return fmt.Errorf("%s: interrupted by shutdown", op)
		}
		batch = append(batch, task.Result.Events...)
	}

	if len(batch) == 0 {
		log.Warn("ingest cycle produced no events")
		return nil
	}

	res, err := o.sink.AddEventsBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("ingest cycle completed",
		slog.Int("scraped", len(batch)),
		slog.Int("added", res.Added),
		slog.Int("duplicates", res.Skipped),
		slog.Duration("took", time.Since(started)),
	)
	return nil
}

// Shutdown stops the schedules and releases any cycle waiting on jobs.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit orchestrator: %w", ctx.Err())
	default:
		o.cron.Stop()
		close(o.shutdownChan)
		return nil
	}
}
