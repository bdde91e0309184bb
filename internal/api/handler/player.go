package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gridlive/gridlive/internal/api/request"
	"github.com/gridlive/gridlive/internal/api/response"
	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/services/registry"
	"github.com/gridlive/gridlive/internal/storage"
)

const (
	// clientCookieName identifies a browser client across page loads
	clientCookieName = "gridlive_client"

	clientTokenLength   = 32
	clientTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	clientCookieMaxAge = int(30 * 24 * time.Hour / time.Second)
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry *registry.Service
	storage  storage.Storage
	random   random.Random
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry *registry.Service, storage storage.Storage, random random.Random) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		storage:  storage,
		random:   random,
	}
}

// GetStats handles GET /api/v1/players/{id}/stats.
// A zeroed record is created on first access, so this never 404s on fresh
// player ids.
func (h *PlayerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	if id == "" {
		WriteError(w, NewInvalidRequestError("player id is required"))
		return
	}

	stats, err := h.registry.GetStats(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// SetPlayerName handles PUT /api/v1/player-name. The name is stored against
// an opaque client token carried in a cookie, minted on first use.
func (h *PlayerHandler) SetPlayerName(w http.ResponseWriter, r *http.Request) {
	var req request.SetPlayerNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	token := h.clientToken(r)
	if token == "" {
		token = h.random.String(clientTokenLength, clientTokenAlphabet)
		http.SetCookie(w, &http.Cookie{
			Name:     clientCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   clientCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if err := h.storage.SaveClientName(r.Context(), token, req.Name); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPlayerName handles GET /api/v1/player-name
func (h *PlayerHandler) GetPlayerName(w http.ResponseWriter, r *http.Request) {
	token := h.clientToken(r)
	if token == "" {
		WriteError(w, model.ErrClientNameNotFound)
		return
	}

	name, err := h.storage.GetClientName(r.Context(), token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerName{Name: name})
}

// clientToken extracts the client token cookie, if present
func (h *PlayerHandler) clientToken(r *http.Request) string {
	cookie, err := r.Cookie(clientCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
