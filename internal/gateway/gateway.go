package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/services/registry"
	"github.com/gridlive/gridlive/internal/services/session"
)

// Event names sent to clients
const (
	EventPlayerRegistered         = "PlayerRegistered"
	EventGameSessionCreated       = "GameSessionCreated"
	EventGameStarted              = "GameStarted"
	EventMoveMade                 = "MoveMade"
	EventAvailableSessionsUpdated = "AvailableSessionsUpdated"
	EventOperationFailed          = "OperationFailed"
	EventJoinFailed               = "JoinFailed"
)

// Notices sent alongside failure events
const (
	noticeAlreadyInGame = "You are already in an active game"
	noticeCannotJoin    = "Unable to join this game session"
)

// Sender is the transport capability the gateway addresses messages through.
// The websocket hub implements it; tests substitute a recorder.
type Sender interface {
	// SendToConnection delivers an event to one connection
	SendToConnection(connectionID, event string, data any)

	// SendToGroup delivers an event to every connection in a group
	SendToGroup(group, event string, data any)

	// SendToAll delivers an event to every connection
	SendToAll(event string, data any)

	// AddToGroup places a connection in a named group
	AddToGroup(group, connectionID string)
}

// Gateway maps transport commands onto engine calls and fans the results out
// as addressed events. It holds no game state of its own.
//
// Commands referencing unknown players or sessions are dropped without reply,
// as are rejected moves; only create and join failures produce a notice.
type Gateway struct {
	registry *registry.Service
	sessions *session.Controller
	sender   Sender
	logger   *slog.Logger
}

// New creates a new gateway
func New(registry *registry.Service, sessions *session.Controller, sender Sender, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		sessions: sessions,
		sender:   sender,
		logger:   logger.With(slog.String("component", "gateway")),
	}
}

// Dispatch routes a command to its handler. The returned value is non-nil
// only for request/response commands (session listing); everything else
// replies through the Sender.
func (g *Gateway) Dispatch(ctx context.Context, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case RegisterCommand:
		return nil, g.handleRegister(ctx, c)
	case CreateSessionCommand:
		return nil, g.handleCreateSession(ctx, c)
	case ListSessionsCommand:
		return g.handleListSessions(ctx, c)
	case JoinSessionCommand:
		return nil, g.handleJoinSession(ctx, c)
	case MoveCommand:
		return nil, g.handleMove(ctx, c)
	default:
		return nil, fmt.Errorf("unhandled command type %T", cmd)
	}
}

func (g *Gateway) handleRegister(ctx context.Context, cmd RegisterCommand) error {
	player, err := g.registry.RegisterPlayer(ctx, cmd.Name, cmd.ConnectionID)
	if err != nil {
		return err
	}

	g.sender.SendToConnection(cmd.ConnectionID, EventPlayerRegistered, player)
	return nil
}

func (g *Gateway) handleCreateSession(ctx context.Context, cmd CreateSessionCommand) error {
	player, err := g.registry.GetPlayer(ctx, cmd.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			g.logger.Warn("create from unknown player",
				slog.String("player_id", string(cmd.PlayerID)))
			return nil
		}
		return err
	}

	created, err := g.sessions.Create(ctx, cmd.SessionName, player)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyInGame) {
			g.sender.SendToConnection(cmd.ConnectionID, EventOperationFailed, noticeAlreadyInGame)
			return nil
		}
		return err
	}

	g.sender.AddToGroup(string(created.ID), cmd.ConnectionID)
	g.sender.SendToConnection(cmd.ConnectionID, EventGameSessionCreated, created)
	return g.broadcastAvailable(ctx)
}

func (g *Gateway) handleListSessions(ctx context.Context, cmd ListSessionsCommand) (any, error) {
	return g.sessions.ListAvailable(ctx)
}

func (g *Gateway) handleJoinSession(ctx context.Context, cmd JoinSessionCommand) error {
	player, err := g.registry.GetPlayer(ctx, cmd.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			g.logger.Warn("join from unknown player",
				slog.String("player_id", string(cmd.PlayerID)))
			return nil
		}
		return err
	}

	joined, err := g.sessions.Join(ctx, cmd.SessionID, player)
	if err != nil {
		if errors.Is(err, model.ErrCannotJoin) {
			g.sender.SendToConnection(cmd.ConnectionID, EventJoinFailed, noticeCannotJoin)
			return nil
		}
		return err
	}

	// A rejoining client may hold a newer connection than it registered with.
	// Rebind only once the join has taken.
	if player.ConnectionID != cmd.ConnectionID {
		if err := g.registry.UpdateConnection(ctx, player.ID, cmd.ConnectionID); err != nil {
			return err
		}
	}

	g.sender.AddToGroup(string(joined.ID), cmd.ConnectionID)
	g.sender.SendToGroup(string(joined.ID), EventGameStarted, joined)
	return g.broadcastAvailable(ctx)
}

func (g *Gateway) handleMove(ctx context.Context, cmd MoveCommand) error {
	applied, err := g.sessions.Move(ctx, cmd.SessionID, cmd.PlayerID, cmd.Position)
	if err != nil {
		return err
	}
	if !applied {
		// Rejected moves get no reply; the client re-syncs from the next
		// accepted move's broadcast
		return nil
	}

	updated, err := g.sessions.Get(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	g.sender.SendToGroup(string(updated.ID), EventMoveMade, updated)
	return nil
}

// HandleDisconnect marks the connection's player disconnected. No event is
// broadcast; games keep their players and sessions stay listed.
func (g *Gateway) HandleDisconnect(ctx context.Context, connectionID string) error {
	return g.registry.DisconnectByConnection(ctx, connectionID)
}

// broadcastAvailable pushes the current joinable-session snapshot to everyone
func (g *Gateway) broadcastAvailable(ctx context.Context) error {
	available, err := g.sessions.ListAvailable(ctx)
	if err != nil {
		return err
	}
	g.sender.SendToAll(EventAvailableSessionsUpdated, available)
	return nil
}
