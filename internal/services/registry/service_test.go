package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gridlive/gridlive/internal/dependencies/mocks"
	"github.com/gridlive/gridlive/internal/model"
	"github.com/gridlive/gridlive/internal/storage/memory"
	"github.com/gridlive/gridlive/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// RegisterPlayer tests

func (s *ServiceSuite) TestRegisterPlayerSucceeds() {
	player, err := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	s.Require().NoError(err)

	s.NotEmpty(player.ID)
	s.Equal("Alice", player.Name)
	s.Equal("Alice", player.DisplayName)
	s.Equal("conn-1", player.ConnectionID)
	s.True(player.Connected)
	s.Equal(s.clock.Now(), player.LastActivity)
}

func (s *ServiceSuite) TestRegisterPlayerPersists() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.Name)
	s.True(stored.Connected)
}

func (s *ServiceSuite) TestRegisterPlayerSameNameGetsFreshIdentity() {
	first, err := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	s.Require().NoError(err)
	second, err := s.service.RegisterPlayer(s.ctx, "Alice", "conn-2")
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Equal("Alice", second.Name)
	s.Equal("Alice #2", second.DisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerDisambiguationCountsCaseInsensitively() {
	_, _ = s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	_, _ = s.service.RegisterPlayer(s.ctx, "ALICE", "conn-2")
	third, err := s.service.RegisterPlayer(s.ctx, "alice", "conn-3")
	s.Require().NoError(err)

	s.Equal("alice", third.Name)
	s.Equal("alice #3", third.DisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerDistinctNamesNotDisambiguated() {
	_, _ = s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	bob, err := s.service.RegisterPlayer(s.ctx, "Bob", "conn-2")
	s.Require().NoError(err)

	s.Equal("Bob", bob.DisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerConcurrentSameNameUniqueDisplayNames() {
	const n = 20
	var wg sync.WaitGroup
	results := make([]*model.Player, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.service.RegisterPlayer(s.ctx, "Racer", fmt.Sprintf("conn-%d", i))
			s.NoError(err)
			results[i] = p
		}(i)
	}
	wg.Wait()

	ids := map[model.PlayerID]bool{}
	displayNames := map[string]bool{}
	for _, p := range results {
		s.Require().NotNil(p)
		ids[p.ID] = true
		displayNames[p.DisplayName] = true
	}
	s.Len(ids, n)
	s.Len(displayNames, n)
}

// UpdateConnection tests

func (s *ServiceSuite) TestUpdateConnectionRebinds() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	s.clock.Advance(time.Minute)

	err := s.service.UpdateConnection(s.ctx, player.ID, "conn-2")
	s.Require().NoError(err)

	stored, _ := s.storage.GetPlayer(s.ctx, player.ID)
	s.Equal("conn-2", stored.ConnectionID)
	s.True(stored.Connected)
	s.Equal(s.clock.Now(), stored.LastActivity)
}

func (s *ServiceSuite) TestUpdateConnectionReconnectsDisconnectedPlayer() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	_ = s.service.DisconnectByConnection(s.ctx, "conn-1")

	err := s.service.UpdateConnection(s.ctx, player.ID, "conn-2")
	s.Require().NoError(err)

	stored, _ := s.storage.GetPlayer(s.ctx, player.ID)
	s.True(stored.Connected)
}

func (s *ServiceSuite) TestUpdateConnectionUnknownPlayerIsNoOp() {
	err := s.service.UpdateConnection(s.ctx, "p_NOPE", "conn-1")
	s.NoError(err)
}

// DisconnectByConnection tests

func (s *ServiceSuite) TestDisconnectByConnectionMarksDisconnected() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")

	err := s.service.DisconnectByConnection(s.ctx, "conn-1")
	s.Require().NoError(err)

	stored, _ := s.storage.GetPlayer(s.ctx, player.ID)
	s.False(stored.Connected)
}

func (s *ServiceSuite) TestDisconnectByConnectionKeepsPlayerRegistered() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	_ = s.service.DisconnectByConnection(s.ctx, "conn-1")

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, stored.ID)
}

func (s *ServiceSuite) TestDisconnectByConnectionUnknownConnectionIsNoOp() {
	err := s.service.DisconnectByConnection(s.ctx, "conn-unknown")
	s.NoError(err)
}

// Lookup tests

func (s *ServiceSuite) TestGetPlayerUnknownReturnsNotFound() {
	_, err := s.service.GetPlayer(s.ctx, "p_NOPE")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestFindPlayerByNameMatchesCaseInsensitively() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")

	found, err := s.service.FindPlayerByName(s.ctx, "aLiCe")
	s.Require().NoError(err)
	s.Equal(player.ID, found.ID)
}

func (s *ServiceSuite) TestFindPlayerByNameUnknownReturnsNotFound() {
	_, err := s.service.FindPlayerByName(s.ctx, "Nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Stats tests

func (s *ServiceSuite) TestGetStatsCreatesZeroedRecordLazily() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")

	stats, err := s.service.GetStats(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, stats.PlayerID)
	s.Equal("Alice", stats.PlayerName)
	s.Zero(stats.Wins)
	s.Zero(stats.Losses)
	s.Zero(stats.Draws)
}

func (s *ServiceSuite) TestGetStatsPersistsLazyRecord() {
	player, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	_, _ = s.service.GetStats(s.ctx, player.ID)

	stored, err := s.storage.GetStats(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, stored.PlayerID)
}

func (s *ServiceSuite) TestGetStatsUsesDisplayName() {
	_, _ = s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	second, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-2")

	stats, err := s.service.GetStats(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal("Alice #2", stats.PlayerName)
}

func (s *ServiceSuite) TestRecordWinIncrementsBothSides() {
	winner, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	loser, _ := s.service.RegisterPlayer(s.ctx, "Bob", "conn-2")

	err := s.service.RecordWin(s.ctx, winner.ID, loser.ID)
	s.Require().NoError(err)

	ws, _ := s.service.GetStats(s.ctx, winner.ID)
	ls, _ := s.service.GetStats(s.ctx, loser.ID)
	s.Equal(1, ws.Wins)
	s.Equal(0, ws.Losses)
	s.Equal(1, ls.Losses)
	s.Equal(0, ls.Wins)
}

func (s *ServiceSuite) TestRecordDrawIncrementsBoth() {
	a, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	b, _ := s.service.RegisterPlayer(s.ctx, "Bob", "conn-2")

	err := s.service.RecordDraw(s.ctx, a.ID, b.ID)
	s.Require().NoError(err)

	as, _ := s.service.GetStats(s.ctx, a.ID)
	bs, _ := s.service.GetStats(s.ctx, b.ID)
	s.Equal(1, as.Draws)
	s.Equal(1, bs.Draws)
}

func (s *ServiceSuite) TestStatsAccumulateAcrossGames() {
	a, _ := s.service.RegisterPlayer(s.ctx, "Alice", "conn-1")
	b, _ := s.service.RegisterPlayer(s.ctx, "Bob", "conn-2")

	_ = s.service.RecordWin(s.ctx, a.ID, b.ID)
	_ = s.service.RecordWin(s.ctx, b.ID, a.ID)
	_ = s.service.RecordDraw(s.ctx, a.ID, b.ID)

	as, _ := s.service.GetStats(s.ctx, a.ID)
	s.Equal(1, as.Wins)
	s.Equal(1, as.Losses)
	s.Equal(1, as.Draws)
}
