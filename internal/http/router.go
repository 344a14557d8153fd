package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inventory-chat/internal/handlers"
	"inventory-chat/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	// Inventory and Model are probed by the health endpoint. Sessions is optional.
	Inventory handlers.Pinger
	Sessions  handlers.Pinger
	Model     handlers.ModelChecker
	// PageTemplate is the html/template source of the chat page.
	PageTemplate string
	// RequestTimeout bounds each API request; zero means no bound.
	RequestTimeout time.Duration
	// Metrics serves /metrics; promhttp.Handler() when nil.
	Metrics http.Handler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	markdown := handlers.NewMarkdownRenderer()
	chatHandler := handlers.NewChatHandler(deps.ChatService, markdown)
	askHandler := handlers.NewAskHandler(deps.ChatService, markdown)
	historyHandler := handlers.NewHistoryHandler(deps.ChatService, markdown)
	pageHandler := handlers.NewPageHandler(deps.ChatService, markdown, deps.PageTemplate)
	healthHandler := handlers.NewHealthHandler(deps.Inventory, deps.Sessions, deps.Model)

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Group(func(r chi.Router) {
			if deps.RequestTimeout > 0 {
				r.Use(middleware.Timeout(deps.RequestTimeout))
			}
			r.Method(http.MethodPost, "/ask", askHandler)

			r.Group(func(r chi.Router) {
				r.Use(SessionMiddleware)
				r.Method(http.MethodPost, "/chat", chatHandler)
				r.Method(http.MethodGet, "/history", historyHandler)
				r.Method(http.MethodDelete, "/history", historyHandler)
			})
		})
	})

	r.With(SessionMiddleware).Method(http.MethodGet, "/", pageHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	return r
}
