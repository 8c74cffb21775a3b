package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"phillyevents/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Repository is the Postgres-backed event store. Batch writes are
// serialized through writeMu so the exists-then-insert dedup check
// never races with another writer.
type Repository struct {
	logger  *slog.Logger
	cfg     *config.Config
	DB      *sqlx.DB
	writeMu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ,
	location TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	price TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_start_date ON events (start_date);
CREATE INDEX IF NOT EXISTS idx_events_category ON events (category);
CREATE INDEX IF NOT EXISTS idx_events_source_url ON events (source_url);
`

func New(logger *slog.Logger, cfg *config.Config) *Repository {
	op := "Repository.New()"
	log := logger.With(
		slog.String("op", op),
	)

	log.Info("Connecting to database",
		slog.String("host", cfg.DBConfig.Host),
		slog.String("name", cfg.DBConfig.Name),
	)

	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		cfg.DBConfig.Host,
		cfg.DBConfig.Port,
		cfg.DBConfig.Name,
		cfg.DBConfig.User,
		cfg.DBConfig.Password,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		panic(err)
	}

	db.MustExec(schema)

	log.Info("database connection established")

	return &Repository{
		logger: logger,
		cfg:    cfg,
		DB:     db,
	}
}

func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return r.DB.Close()
	}
}
