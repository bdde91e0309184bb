package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gridlive/gridlive/internal/gateway"
	"github.com/gridlive/gridlive/internal/model"
)

// Method names accepted from clients
const (
	methodRegisterPlayer       = "registerPlayer"
	methodCreateGameSession    = "createGameSession"
	methodGetAvailableSessions = "getAvailableSessions"
	methodJoinGameSession      = "joinGameSession"
	methodMakeMove             = "makeMove"
)

// clientFrame is one inbound invocation
type clientFrame struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args"`
}

// eventFrame is an outbound server-initiated event
type eventFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// resultFrame answers an invocation that carries a return value
type resultFrame struct {
	ID     string `json:"id"`
	Result any    `json:"result"`
}

type registerArgs struct {
	Name string `json:"name"`
}

type createSessionArgs struct {
	PlayerID    string `json:"playerId"`
	SessionName string `json:"sessionName"`
}

type joinSessionArgs struct {
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
}

type makeMoveArgs struct {
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
	Position  int    `json:"position"`
}

// decodeCommand turns an inbound frame into a gateway command
func decodeCommand(connectionID string, frame clientFrame) (gateway.Command, error) {
	switch frame.Method {
	case methodRegisterPlayer:
		var args registerArgs
		if err := json.Unmarshal(frame.Args, &args); err != nil {
			return nil, fmt.Errorf("decoding %s args: %w", frame.Method, err)
		}
		return gateway.RegisterCommand{
			ConnectionID: connectionID,
			Name:         args.Name,
		}, nil

	case methodCreateGameSession:
		var args createSessionArgs
		if err := json.Unmarshal(frame.Args, &args); err != nil {
			return nil, fmt.Errorf("decoding %s args: %w", frame.Method, err)
		}
		return gateway.CreateSessionCommand{
			ConnectionID: connectionID,
			PlayerID:     model.PlayerID(args.PlayerID),
			SessionName:  args.SessionName,
		}, nil

	case methodGetAvailableSessions:
		return gateway.ListSessionsCommand{ConnectionID: connectionID}, nil

	case methodJoinGameSession:
		var args joinSessionArgs
		if err := json.Unmarshal(frame.Args, &args); err != nil {
			return nil, fmt.Errorf("decoding %s args: %w", frame.Method, err)
		}
		return gateway.JoinSessionCommand{
			ConnectionID: connectionID,
			PlayerID:     model.PlayerID(args.PlayerID),
			SessionID:    model.SessionID(args.SessionID),
		}, nil

	case methodMakeMove:
		var args makeMoveArgs
		if err := json.Unmarshal(frame.Args, &args); err != nil {
			return nil, fmt.Errorf("decoding %s args: %w", frame.Method, err)
		}
		return gateway.MoveCommand{
			ConnectionID: connectionID,
			PlayerID:     model.PlayerID(args.PlayerID),
			SessionID:    model.SessionID(args.SessionID),
			Position:     args.Position,
		}, nil

	default:
		return nil, fmt.Errorf("unknown method %q", frame.Method)
	}
}
