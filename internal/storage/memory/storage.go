package memory

import (
	"context"
	"sync"

	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// It is the default backend; state lives for the process lifetime.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]model.Player
	sessions    map[model.SessionID]model.GameSession
	stats       map[model.PlayerID]model.GameStats
	clientNames map[string]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]model.Player),
		sessions:    make(map[model.SessionID]model.GameSession),
		stats:       make(map[model.PlayerID]model.GameStats),
		clientNames: make(map[string]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = *player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		cp := p
		players = append(players, &cp)
	}
	return players, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*model.GameSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		cp := sess
		sessions = append(sessions, &cp)
	}
	return sessions, nil
}

// Stats operations

func (s *Storage) SaveStats(ctx context.Context, stats *model.GameStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.PlayerID] = *stats
	return nil
}

func (s *Storage) GetStats(ctx context.Context, id model.PlayerID) (*model.GameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return &stats, nil
}

// Client name operations

func (s *Storage) SaveClientName(ctx context.Context, token, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientNames[token] = name
	return nil
}

func (s *Storage) GetClientName(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.clientNames[token]
	if !ok {
		return "", model.ErrClientNameNotFound
	}
	return name, nil
}
