package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// GameStatus is the session lifecycle state machine.
// The numeric values are part of the wire protocol.
type GameStatus int

const (
	StatusWaiting    GameStatus = 0 // creator only, open to join
	StatusInProgress GameStatus = 1 // both players present, moves alternate
	StatusFinished   GameStatus = 2 // terminal; has a winner or draw
)

// String returns a human-readable status name
func (s GameStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// BoardSize is the number of cells on the grid
const BoardSize = 9

// Board is the 3x3 grid, row-major. Each cell is "", "X" or "O".
// A cell never changes once non-empty.
type Board [BoardSize]string

// winLines are the eight completable triples on a 3x3 grid
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// WinningMark returns the mark ("X" or "O") completing a line, if any.
// The first matching line found is returned.
func (b Board) WinningMark() (string, bool) {
	for _, line := range winLines {
		a := b[line[0]]
		if a != "" && a == b[line[1]] && a == b[line[2]] {
			return a, true
		}
	}
	return "", false
}

// Full reports whether every cell is occupied
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == "" {
			return false
		}
	}
	return true
}

// DrawWinner is the Winner value recorded when a full board has no winning line
const DrawWinner = "Draw"

// GameSession is one two-player game instance.
//
// The JSON field names are the wire shape sent to clients on create, join,
// move broadcasts and session listings.
type GameSession struct {
	ID              SessionID  `json:"id"`
	SessionName     string     `json:"sessionName"`
	CreatorID       PlayerID   `json:"creatorId"`
	CreatorName     string     `json:"creatorName"`
	PlayerXID       PlayerID   `json:"playerXId"`
	PlayerOID       PlayerID   `json:"playerOId,omitempty"`
	CurrentPlayerID PlayerID   `json:"currentPlayerId"`
	Status          GameStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	Board           Board      `json:"board"`
	Winner          string     `json:"winner,omitempty"`
}

// HasPlayer reports whether the given player is X or O in this session
func (s *GameSession) HasPlayer(id PlayerID) bool {
	return s.PlayerXID == id || (s.PlayerOID != "" && s.PlayerOID == id)
}

// Active reports whether the session still binds its participants
// (Waiting or InProgress)
func (s *GameSession) Active() bool {
	return s.Status == StatusWaiting || s.Status == StatusInProgress
}

// MarkFor returns the mark the given player writes in this session
func (s *GameSession) MarkFor(id PlayerID) string {
	if id == s.PlayerXID {
		return "X"
	}
	return "O"
}

// Opponent returns the other participant's id
func (s *GameSession) Opponent(id PlayerID) PlayerID {
	if id == s.PlayerXID {
		return s.PlayerOID
	}
	return s.PlayerXID
}
