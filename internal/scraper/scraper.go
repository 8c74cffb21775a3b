package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"phillyevents/internal/config"
	"phillyevents/internal/scraper/sites"

	"github.com/google/uuid"
)

// Task is the caller's handle on one enqueued scrape. Result is valid
// only after Done is closed.
type Task struct {
	Done   chan struct{}
	Result sites.RunResult
}

// Job pairs one adapter with its completion handle.
type Job struct {
	requestID uuid.UUID
	adapter   sites.Adapter
	task      *Task
}

// Scraper runs site adapters on a fixed worker pool. Jobs queue in a
// bounded buffer; a full buffer rejects instead of blocking the caller.
type Scraper struct {
	logger          *slog.Logger
	cfg             *config.Config
	pipeline        *sites.Pipeline
	jobs            chan Job
	shutdownChannel chan struct{}
	wg              *sync.WaitGroup
}

func New(logger *slog.Logger, cfg *config.Config, pipeline *sites.Pipeline) *Scraper {
	op := "Scraper.New()"
	log := logger.With(
		slog.String("op", op),
	)

	log.Info("Creating scraper service")

	return &Scraper{
		logger:          logger,
		cfg:             cfg,
		pipeline:        pipeline,
		jobs:            make(chan Job, cfg.Scraper.JobBufferSize),
		shutdownChannel: make(chan struct{}),
		wg:              &sync.WaitGroup{},
	}
}

// Start launches the workers and blocks until they exit.
func (s *Scraper) Start() {
	op := "Scraper.Start()"
	log := s.logger.With(
		slog.String("op", op),
	)

	for i := 0; i < s.cfg.Scraper.WorkersCount; i++ {
		s.wg.Add(1)
		go s.handleJob(i)
	}
	log.Info("scraper service started", slog.Int("workers", s.cfg.Scraper.WorkersCount))

	s.wg.Wait()
}

// AddJob queues one adapter for scraping.
func (s *Scraper) AddJob(requestID uuid.UUID, adapter sites.Adapter) (*Task, error) {
	task := &Task{Done: make(chan struct{})}
	newJob := Job{
		requestID: requestID,
		adapter:   adapter,
		task:      task,
	}
	select {
	case <-s.shutdownChannel:
		return nil, fmt.Errorf("service is shutting down")
	default:
		if len(s.jobs) < s.cfg.Scraper.JobBufferSize {
			s.jobs <- newJob
			return task, nil
		}
		return nil, fmt.Errorf("job buffer is full")
	}
}

func (s *Scraper) handleJob(id int) {
	defer s.wg.Done()
	op := "Scraper.handleJob()"
	log := s.logger.With(
		slog.String("op", op),
		slog.Int("workerId", id),
	)

	log.Info("start scraper job handler")

	for {
		select {
		case <-s.shutdownChannel:
			return
		case job := <-s.jobs:
			joblog := log.With(
				slog.String("requestID", job.requestID.String()),
				slog.String("source", job.adapter.Config().Name),
			)

			job.task.Result = s.runAdapter(job.adapter, joblog)
			close(job.task.Done)

			joblog.Info("scraping completed",
				slog.Int("eventsCount", len(job.task.Result.Events)),
				slog.String("outcome", string(job.task.Result.Outcome)),
			)
		}
	}
}

// runAdapter isolates one adapter invocation. A panicking adapter is
// reported as an empty result so the rest of the cycle proceeds.
func (s *Scraper) runAdapter(adapter sites.Adapter, log *slog.Logger) (res sites.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("adapter panicked", slog.Any("panic", r))
			res = sites.RunResult{Source: adapter.Config().Name, Outcome: sites.OutcomeEmpty}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Scraper.JobTimeout)*time.Minute)
	defer cancel()

	return s.pipeline.Run(ctx, adapter, log)
}

// Shutdown stops the workers. The jobs channel stays open so a trigger
// racing shutdown cannot panic on send; a job that slips in after the
// signal is abandoned with its Done channel open, so callers must also
// watch the shutdown signal.
func (s *Scraper) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit scraper: %w", ctx.Err())
	default:
		close(s.shutdownChannel)
		return nil
	}
}
