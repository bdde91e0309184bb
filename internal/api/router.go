package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridlive/gridlive/internal/api/handler"
	"github.com/gridlive/gridlive/internal/api/response"
	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/middleware"
	"github.com/gridlive/gridlive/internal/services/registry"
	"github.com/gridlive/gridlive/internal/services/session"
	"github.com/gridlive/gridlive/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Registry          *registry.Service
	SessionController *session.Controller
	Storage           storage.Storage
	Random            random.Random

	// WebsocketHandler serves the upgrade endpoint at /ws
	WebsocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Storage, cfg.Random)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/players/{id}/stats", playerHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/player-name", playerHandler.SetPlayerName).Methods(http.MethodPut)
	api.HandleFunc("/player-name", playerHandler.GetPlayerName).Methods(http.MethodGet)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint sits outside the API middleware chain; hijacked
	// connections don't mix with the logging response wrapper
	if cfg.WebsocketHandler != nil {
		r.Handle("/ws", cfg.WebsocketHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
