package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Chatresh7/edtech-bot/internal/handlers"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/service"
	"github.com/Chatresh7/edtech-bot/internal/session"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService  service.ChatService
	Index        *retriever.Handle
	Corpus       *kb.Corpus
	Sessions     *session.Store
	EmbedderName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	statsHandler := handlers.NewStatsHandler(deps.Index, deps.Sessions, deps.EmbedderName)
	healthHandler := handlers.NewHealthHandler(deps.Index)
	articleHandler := handlers.NewArticleHandler(deps.Corpus)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Get("/kb/articles/{id}", articleHandler.ServeHTTP)

	return r
}
