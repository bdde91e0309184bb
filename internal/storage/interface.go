package storage

import (
	"context"

	"github.com/gridlive/gridlive/internal/model"
)

// Storage defines the interface for registry and session state.
//
// Implementations provide per-call atomicity and return detached copies;
// cross-step read-modify-write transitions are serialized by the services.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.GameSession) error
	GetSession(ctx context.Context, id model.SessionID) (*model.GameSession, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	ListSessions(ctx context.Context) ([]*model.GameSession, error)

	// Stats operations
	SaveStats(ctx context.Context, stats *model.GameStats) error
	GetStats(ctx context.Context, id model.PlayerID) (*model.GameStats, error)

	// Client name operations (per-browser-session persisted player name)
	SaveClientName(ctx context.Context, token, name string) error
	GetClientName(ctx context.Context, token string) (string, error)
}
