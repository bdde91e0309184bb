package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/gridlive/gridlive/internal/dependencies/clock"
	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/services/registry"
	"github.com/gridlive/gridlive/internal/storage"
)

const (
	// idLength is the length of generated session ids
	idLength = 12
	// idAlphabet is the characters used in generated ids
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller manages the session state machine: creation, joining, moves,
// win detection and completion.
//
// Mutation is serialized with keyed locks rather than one global lock: a
// per-player lock covers create/join (so the active-game invariant holds
// under racing calls by one player) and a per-session lock covers join/move.
// Lock order is always player before session.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	playerLocks  keyedLocks[model.PlayerID]
	sessionLocks keyedLocks[model.SessionID]
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	registry *registry.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		registry: registry,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Create starts a new session with the creator as X and first to move.
// Returns ErrAlreadyInGame if the creator is a participant of any session
// still in Waiting or InProgress.
func (c *Controller) Create(ctx context.Context, name string, creator *model.Player) (*model.GameSession, error) {
	unlock := c.playerLocks.lock(creator.ID)
	defer unlock()

	inGame, err := c.IsPlayerInActiveGame(ctx, creator.ID)
	if err != nil {
		return nil, err
	}
	if inGame {
		return nil, model.ErrAlreadyInGame
	}

	session := &model.GameSession{
		ID:              model.SessionID("s_" + c.random.String(idLength, idAlphabet)),
		SessionName:     name,
		CreatorID:       creator.ID,
		CreatorName:     creator.DisplayName,
		PlayerXID:       creator.ID,
		CurrentPlayerID: creator.ID,
		Status:          model.StatusWaiting,
		CreatedAt:       c.clock.Now(),
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("creator_id", string(creator.ID)),
		slog.String("session_name", name))

	return session, nil
}

// Join adds a second player as O and moves the session to InProgress. The
// current turn is left with X, who moves first. Returns ErrCannotJoin when
// the joiner is already in an active game, the session does not exist, it is
// not Waiting, or the joiner is the creator.
func (c *Controller) Join(ctx context.Context, id model.SessionID, player *model.Player) (*model.GameSession, error) {
	unlockPlayer := c.playerLocks.lock(player.ID)
	defer unlockPlayer()

	inGame, err := c.IsPlayerInActiveGame(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	if inGame {
		return nil, model.ErrCannotJoin
	}

	unlockSession := c.sessionLocks.lock(id)
	defer unlockSession()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, model.ErrCannotJoin
		}
		return nil, err
	}

	if session.Status != model.StatusWaiting || session.PlayerXID == player.ID {
		return nil, model.ErrCannotJoin
	}

	session.PlayerOID = player.ID
	session.Status = model.StatusInProgress

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session joined",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(player.ID)))

	return session, nil
}

// Move applies one move. It returns false, leaving the session untouched,
// when the session is absent or not InProgress, the player is not the
// current-turn player, the position is outside the board, or the cell is
// occupied. It returns true whenever the mark was written, including the
// move that finishes the game.
func (c *Controller) Move(ctx context.Context, id model.SessionID, playerID model.PlayerID, position int) (bool, error) {
	unlock := c.sessionLocks.lock(id)
	defer unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	if session.Status != model.StatusInProgress ||
		session.CurrentPlayerID != playerID ||
		position < 0 || position >= model.BoardSize ||
		session.Board[position] != "" {
		return false, nil
	}

	session.Board[position] = session.MarkFor(playerID)

	switch {
	case c.finishIfWon(session):
		if err := c.registry.RecordWin(ctx, model.PlayerID(session.Winner), session.Opponent(model.PlayerID(session.Winner))); err != nil {
			return false, err
		}
	case session.Board.Full():
		session.Status = model.StatusFinished
		session.Winner = model.DrawWinner
		if err := c.registry.RecordDraw(ctx, session.PlayerXID, session.PlayerOID); err != nil {
			return false, err
		}
	default:
		session.CurrentPlayerID = session.Opponent(session.CurrentPlayerID)
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return false, err
	}

	if session.Status == model.StatusFinished {
		c.logger.Info("session finished",
			slog.String("session_id", string(session.ID)),
			slog.String("winner", session.Winner))
	}

	return true, nil
}

// finishIfWon marks the session finished when a line is complete and
// records the winning player's id.
func (c *Controller) finishIfWon(session *model.GameSession) bool {
	mark, won := session.Board.WinningMark()
	if !won {
		return false
	}
	session.Status = model.StatusFinished
	if mark == "X" {
		session.Winner = string(session.PlayerXID)
	} else {
		session.Winner = string(session.PlayerOID)
	}
	return true
}

// Get retrieves a session by id
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.GameSession, error) {
	return c.storage.GetSession(ctx, id)
}

// ListAvailable returns a snapshot of Waiting sessions, newest first
func (c *Controller) ListAvailable(ctx context.Context) ([]*model.GameSession, error) {
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*model.GameSession, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == model.StatusWaiting {
			available = append(available, s)
		}
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})

	return available, nil
}

// IsPlayerInActiveGame reports whether the player is X or O in any session
// with status Waiting or InProgress
func (c *Controller) IsPlayerInActiveGame(ctx context.Context, id model.PlayerID) (bool, error) {
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s.Active() && s.HasPlayer(id) {
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes a session unconditionally. Nothing in the lifecycle calls
// this; session cleanup policy is left to the operator.
func (c *Controller) Remove(ctx context.Context, id model.SessionID) error {
	unlock := c.sessionLocks.lock(id)
	defer unlock()
	return c.storage.DeleteSession(ctx, id)
}

// keyedLocks is a lazily populated set of named mutexes. Locks are never
// removed; the entry count is bounded by the number of distinct entities.
type keyedLocks[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

// lock acquires the mutex for key and returns its unlock func
func (k *keyedLocks[K]) lock(key K) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[K]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
