package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxoun/tg-bot-msc/internal/api"
	"github.com/maxoun/tg-bot-msc/internal/api/handlers"
	"github.com/maxoun/tg-bot-msc/internal/api/middleware"
)

type RouterConfig struct {
	AskHandler *handlers.AskHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", cfg.AskHandler.Status)
	r.Post("/ask", cfg.AskHandler.Ask)

	return r
}
