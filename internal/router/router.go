package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"chat-frontend/internal/handlers"
	"chat-frontend/internal/logging"
	"chat-frontend/internal/middleware"
	"chat-frontend/internal/websocket"
)

func New(
	logger zerolog.Logger,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	wsHub *websocket.Hub,
	writeLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(logging.HTTPMiddleware(logger))
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── User Routes ────
		r.Route("/Users", func(r chi.Router) {
			r.Use(writeLimiter.WritesOnly)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.Get)
		})

		// ──── Chat Routes ────
		r.Route("/Chats", func(r chi.Router) {
			r.Use(writeLimiter.WritesOnly)
			r.Get("/", chatHandler.List)
			r.Post("/", chatHandler.Create)
			r.Get("/{id}", chatHandler.Get)
			r.Put("/{id}", chatHandler.Update)
			r.Delete("/{id}", chatHandler.Delete)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
