package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/gridlive/gridlive/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ClientNameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:           "p_AAA",
		Name:         "Alice",
		DisplayName:  "Alice",
		ConnectionID: "conn-1",
		Connected:    true,
		LastActivity: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p_AAA")
	s.Require().NoError(err)
	s.Equal(player.Name, got.Name)
	s.Equal(player.DisplayName, got.DisplayName)
	s.Equal("conn-1", got.ConnectionID, "connection fields survive the round trip")
	s.True(got.Connected)
	s.True(player.LastActivity.Equal(got.LastActivity))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "p_NOPE")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayers() {
	for _, id := range []model.PlayerID{"p_A", "p_B", "p_C"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: id, Name: string(id)}))
	}

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 3)
}

func (s *StorageSuite) TestListPlayersEmpty() {
	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestSavePlayerOverwrites() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "p_A", Name: "Alice", Connected: true}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "p_A", Name: "Alice", Connected: false}))

	got, err := s.storage.GetPlayer(s.ctx, "p_A")
	s.Require().NoError(err)
	s.False(got.Connected)

	players, _ := s.storage.ListPlayers(s.ctx)
	s.Len(players, 1, "index holds one entry per player")
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.GameSession{
		ID:              "s_AAA",
		SessionName:     "game",
		CreatorID:       "p_A",
		CreatorName:     "Alice",
		PlayerXID:       "p_A",
		CurrentPlayerID: "p_A",
		Status:          model.StatusWaiting,
		CreatedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	session.Board[4] = "X"

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	got, err := s.storage.GetSession(s.ctx, "s_AAA")
	s.Require().NoError(err)
	s.Equal(session.SessionName, got.SessionName)
	s.Equal(model.StatusWaiting, got.Status)
	s.Equal("X", got.Board[4])
	s.True(session.CreatedAt.Equal(got.CreatedAt))
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "s_NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.GameSession{ID: "s_A"}))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "s_A"))

	_, err := s.storage.GetSession(s.ctx, "s_A")
	s.ErrorIs(err, model.ErrSessionNotFound)

	sessions, _ := s.storage.ListSessions(s.ctx)
	s.Empty(sessions, "delete removes the index entry")
}

func (s *StorageSuite) TestListSessions() {
	for _, id := range []model.SessionID{"s_A", "s_B"} {
		s.Require().NoError(s.storage.SaveSession(s.ctx, &model.GameSession{ID: id}))
	}

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Len(sessions, 2)
}

// Stats tests

func (s *StorageSuite) TestSaveAndGetStats() {
	stats := &model.GameStats{
		PlayerID:   "p_A",
		PlayerName: "Alice",
		Wins:       2,
		Losses:     1,
		Draws:      3,
	}

	s.Require().NoError(s.storage.SaveStats(s.ctx, stats))

	got, err := s.storage.GetStats(s.ctx, "p_A")
	s.Require().NoError(err)
	s.Equal(stats, got)
}

func (s *StorageSuite) TestGetStatsNotFound() {
	_, err := s.storage.GetStats(s.ctx, "p_NOPE")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

// Client name tests

func (s *StorageSuite) TestSaveAndGetClientName() {
	s.Require().NoError(s.storage.SaveClientName(s.ctx, "tok-1", "Alice"))

	name, err := s.storage.GetClientName(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal("Alice", name)
}

func (s *StorageSuite) TestGetClientNameNotFound() {
	_, err := s.storage.GetClientName(s.ctx, "tok-nope")
	s.ErrorIs(err, model.ErrClientNameNotFound)
}

func (s *StorageSuite) TestClientNameExpires() {
	s.Require().NoError(s.storage.SaveClientName(s.ctx, "tok-1", "Alice"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetClientName(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrClientNameNotFound)
}
