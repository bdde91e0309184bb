package gateway

import "github.com/gridlive/gridlive/internal/model"

// Command is one client-initiated operation. Each variant carries the
// originating connection id so replies can be addressed without the gateway
// knowing anything about the transport.
type Command interface {
	isCommand()
}

// RegisterCommand registers a new player identity for a connection
type RegisterCommand struct {
	ConnectionID string
	Name         string
}

// CreateSessionCommand opens a new session with the player as creator
type CreateSessionCommand struct {
	ConnectionID string
	PlayerID     model.PlayerID
	SessionName  string
}

// ListSessionsCommand requests a snapshot of joinable sessions
type ListSessionsCommand struct {
	ConnectionID string
}

// JoinSessionCommand joins the player to a waiting session
type JoinSessionCommand struct {
	ConnectionID string
	PlayerID     model.PlayerID
	SessionID    model.SessionID
}

// MoveCommand plays one move in a session
type MoveCommand struct {
	ConnectionID string
	PlayerID     model.PlayerID
	SessionID    model.SessionID
	Position     int
}

func (RegisterCommand) isCommand()      {}
func (CreateSessionCommand) isCommand() {}
func (ListSessionsCommand) isCommand()  {}
func (JoinSessionCommand) isCommand()   {}
func (MoveCommand) isCommand()          {}
