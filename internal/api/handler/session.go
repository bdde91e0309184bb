package handler

import (
	"net/http"

	"github.com/gridlive/gridlive/internal/api/response"
	"github.com/gridlive/gridlive/internal/services/session"
)

// SessionHandler handles session listing endpoints
type SessionHandler struct {
	sessions *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Controller) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	available, err := h.sessions.ListAvailable(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, available)
}
