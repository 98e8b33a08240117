package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := deps.Broker
	if broker == nil {
		broker = NewBroker()
	}
	broker.Follow(deps.Games)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Mèo Nổ API", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", handleListDecks(deps.Content))
		r.Get("/decks/{deck}/backup/{n}", handleBackupQuestion(deps.Content))
		r.Get("/questions/{questionID}", handleQuestion(deps.Content))

		r.Post("/games", handleCreateGame(logger, deps))

		// {gameID} resolved by gameMiddleware.
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Use(gameMiddleware(deps.Games))
			r.Get("/", handleGetGame())
			r.Delete("/", handleDeleteGame(logger, deps.Games))
			r.Post("/commands", handleCommand(logger, deps.Content))
			r.Post("/undo", handleUndo())
			r.Get("/events", handleEvents(broker))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
