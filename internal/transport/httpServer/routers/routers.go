package routers

import (
	"log/slog"

	"phillyevents/internal/transport/httpServer/handlers"
	myMiddleware "phillyevents/internal/transport/httpServer/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	eventHandler *handlers.EventHandler
	log          *slog.Logger
	secret       string
}

func NewRouter(log *slog.Logger, eventHandler *handlers.EventHandler, secret string) *Router {
	return &Router{
		eventHandler: eventHandler,
		log:          log,
		secret:       secret,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.NewLoggerMiddleware(r.log))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Get("/events", r.eventHandler.GetEvents)
			mux.Get("/stats", r.eventHandler.GetStats)

			mux.Route("/scrape", func(mux chi.Router) {
				mux.Use(myMiddleware.RequireApiKey(r.secret))
				mux.Post("/", r.eventHandler.TriggerScrape)
			})
		})
	})
}
