package registry

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/gridlive/gridlive/internal/dependencies/clock"
	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/storage"
)

const (
	// idLength is the length of generated player ids
	idLength = 12
	// idAlphabet is the characters used in generated ids
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service owns player identity and per-player stats.
//
// Registration is register-or-create in identity: the same name registered
// twice yields two distinct players with disambiguated display names.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	// registerMu serializes registrations so duplicate-name counting and
	// display-name assignment are atomic.
	registerMu sync.Mutex

	// statsMu serializes lazy stats creation and counter increments.
	statsMu sync.Mutex
}

// New creates a new registry service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// RegisterPlayer creates a new player with a fresh id and a display name
// disambiguated against existing players with a case-insensitive equal name.
func (s *Service) RegisterPlayer(ctx context.Context, name, connectionID string) (*model.Player, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	sameName := 0
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			sameName++
		}
	}

	displayName := name
	if sameName > 0 {
		displayName = name + " #" + strconv.Itoa(sameName+1)
	}

	player := &model.Player{
		ID:           model.PlayerID("p_" + s.random.String(idLength, idAlphabet)),
		Name:         name,
		DisplayName:  displayName,
		ConnectionID: connectionID,
		Connected:    true,
		LastActivity: s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", player.DisplayName))

	return player, nil
}

// UpdateConnection points a player at a new connection handle and marks it
// connected. Unknown ids are a silent no-op.
func (s *Service) UpdateConnection(ctx context.Context, id model.PlayerID, connectionID string) error {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	player.ConnectionID = connectionID
	player.Connected = true
	player.LastActivity = s.clock.Now()

	return s.storage.SavePlayer(ctx, player)
}

// DisconnectByConnection marks whichever player holds the given connection
// handle as disconnected. The player stays registered and any session they
// are in continues to reference them.
func (s *Service) DisconnectByConnection(ctx context.Context, connectionID string) error {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return err
	}

	for _, p := range players {
		if p.ConnectionID == connectionID {
			p.Connected = false
			if err := s.storage.SavePlayer(ctx, p); err != nil {
				return err
			}
			s.logger.Info("player disconnected",
				slog.String("player_id", string(p.ID)))
			return nil
		}
	}
	return nil
}

// GetPlayer retrieves a player by id
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// FindPlayerByName returns the first player whose name matches
// case-insensitively, in arbitrary internal order.
func (s *Service) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

// GetStats returns the player's stats record, creating and persisting a
// zeroed record on first access.
func (s *Service) GetStats(ctx context.Context, id model.PlayerID) (*model.GameStats, error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.statsLocked(ctx, id)
}

// RecordWin increments the winner's wins and the loser's losses
func (s *Service) RecordWin(ctx context.Context, winner, loser model.PlayerID) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	ws, err := s.statsLocked(ctx, winner)
	if err != nil {
		return err
	}
	ws.Wins++
	if err := s.storage.SaveStats(ctx, ws); err != nil {
		return err
	}

	ls, err := s.statsLocked(ctx, loser)
	if err != nil {
		return err
	}
	ls.Losses++
	return s.storage.SaveStats(ctx, ls)
}

// RecordDraw increments both players' draws
func (s *Service) RecordDraw(ctx context.Context, a, b model.PlayerID) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	for _, id := range []model.PlayerID{a, b} {
		st, err := s.statsLocked(ctx, id)
		if err != nil {
			return err
		}
		st.Draws++
		if err := s.storage.SaveStats(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// statsLocked fetches or lazily creates a stats record. Caller holds statsMu.
func (s *Service) statsLocked(ctx context.Context, id model.PlayerID) (*model.GameStats, error) {
	stats, err := s.storage.GetStats(ctx, id)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, model.ErrStatsNotFound) {
		return nil, err
	}

	name := string(id)
	if player, perr := s.storage.GetPlayer(ctx, id); perr == nil {
		name = player.DisplayName
	}

	stats = &model.GameStats{
		PlayerID:   id,
		PlayerName: name,
	}
	if err := s.storage.SaveStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

