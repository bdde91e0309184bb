package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinningMark(t *testing.T) {
	tests := []struct {
		name     string
		cells    []int
		mark     string
		expected bool
	}{
		{"top row", []int{0, 1, 2}, "X", true},
		{"middle row", []int{3, 4, 5}, "O", true},
		{"bottom row", []int{6, 7, 8}, "X", true},
		{"left column", []int{0, 3, 6}, "O", true},
		{"middle column", []int{1, 4, 7}, "X", true},
		{"right column", []int{2, 5, 8}, "O", true},
		{"main diagonal", []int{0, 4, 8}, "X", true},
		{"anti diagonal", []int{2, 4, 6}, "O", true},
		{"two in a row", []int{0, 1}, "X", false},
		{"scattered", []int{0, 4, 5}, "X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var board Board
			for _, cell := range tt.cells {
				board[cell] = tt.mark
			}

			mark, won := board.WinningMark()
			assert.Equal(t, tt.expected, won)
			if tt.expected {
				assert.Equal(t, tt.mark, mark)
			}
		})
	}
}

func TestWinningMarkEmptyLineDoesNotWin(t *testing.T) {
	var board Board
	_, won := board.WinningMark()
	assert.False(t, won)
}

func TestWinningMarkMixedLineDoesNotWin(t *testing.T) {
	var board Board
	board[0] = "X"
	board[1] = "O"
	board[2] = "X"
	_, won := board.WinningMark()
	assert.False(t, won)
}

func TestBoardFull(t *testing.T) {
	var board Board
	assert.False(t, board.Full())

	for i := 0; i < BoardSize-1; i++ {
		board[i] = "X"
	}
	assert.False(t, board.Full())

	board[BoardSize-1] = "O"
	assert.True(t, board.Full())
}

func TestSessionHasPlayer(t *testing.T) {
	session := &GameSession{PlayerXID: "p_X"}
	assert.True(t, session.HasPlayer("p_X"))
	assert.False(t, session.HasPlayer("p_O"))
	assert.False(t, session.HasPlayer(""), "no O player means empty id is not a participant")

	session.PlayerOID = "p_O"
	assert.True(t, session.HasPlayer("p_O"))
}

func TestSessionActive(t *testing.T) {
	session := &GameSession{Status: StatusWaiting}
	assert.True(t, session.Active())

	session.Status = StatusInProgress
	assert.True(t, session.Active())

	session.Status = StatusFinished
	assert.False(t, session.Active())
}

func TestSessionMarkAndOpponent(t *testing.T) {
	session := &GameSession{PlayerXID: "p_X", PlayerOID: "p_O"}
	assert.Equal(t, "X", session.MarkFor("p_X"))
	assert.Equal(t, "O", session.MarkFor("p_O"))
	assert.Equal(t, PlayerID("p_O"), session.Opponent("p_X"))
	assert.Equal(t, PlayerID("p_X"), session.Opponent("p_O"))
}

func TestSessionWireShape(t *testing.T) {
	session := &GameSession{
		ID:              "s_AAA",
		SessionName:     "game",
		CreatorID:       "p_X",
		CreatorName:     "Alice",
		PlayerXID:       "p_X",
		CurrentPlayerID: "p_X",
		Status:          StatusWaiting,
		CreatedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(session)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "s_AAA", wire["id"])
	assert.Equal(t, "game", wire["sessionName"])
	assert.Equal(t, "Alice", wire["creatorName"])
	assert.Equal(t, float64(0), wire["status"], "status serializes as its numeric value")
	assert.Len(t, wire["board"], BoardSize)
	assert.NotContains(t, wire, "playerOId", "absent O player is omitted")
	assert.NotContains(t, wire, "winner", "unfinished game has no winner field")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "waiting", StatusWaiting.String())
	assert.Equal(t, "in_progress", StatusInProgress.String())
	assert.Equal(t, "finished", StatusFinished.String())
	assert.Equal(t, "unknown", GameStatus(9).String())
}
