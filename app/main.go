package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"phillyevents/internal/config"
	"phillyevents/internal/graceful"
	"phillyevents/internal/orchestrator"
	"phillyevents/internal/repositories"
	"phillyevents/internal/scraper"
	"phillyevents/internal/scraper/dates"
	"phillyevents/internal/scraper/sites"
	"phillyevents/internal/transport/httpServer"
	"phillyevents/internal/transport/httpServer/handlers"
	"phillyevents/internal/transport/httpServer/routers"
	"phillyevents/internal/utils/logger/handlers/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting event catalog",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	repositoryService := repositories.New(log, cfg)

	normalizer := dates.New(cfg.Scraper.Timezone, cfg.Scraper.DefaultHour)
	pipeline := &sites.Pipeline{
		Dates:  normalizer,
		Region: cfg.Scraper.Region,
		Now:    time.Now,
	}

	httpClient := sites.NewClient(time.Duration(cfg.Scraper.FetchTimeout) * time.Second)
	adapters := sites.All(httpClient, time.Now)

	scraperService := scraper.New(log, cfg, pipeline)
	orchestratorService := orchestrator.New(
		log, cfg, scraperService, repositoryService, adapters,
		normalizer.Location(), time.Now,
	)

	// HTTP Server
	eventHandler := handlers.NewEventHandler(log, repositoryService, orchestratorService)
	router := routers.NewRouter(log, eventHandler, cfg.HttpServer.Secret)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		map[string]graceful.Operation{
			"Scraper service": func(ctx context.Context) error {
				return scraperService.Shutdown(ctx)
			},
			"Orchestrator service": func(ctx context.Context) error {
				return orchestratorService.Shutdown(ctx)
			},
			"Repository service": func(ctx context.Context) error {
				return repositoryService.Shutdown(ctx)
			},
			"HTTP server": func(ctx context.Context) error {
				return httpSrv.Shutdown(ctx)
			},
		},
		log,
	)

	go scraperService.Start()
	orchestratorService.Start()
	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
