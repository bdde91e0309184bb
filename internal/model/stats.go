package model

// GameStats holds per-player win/loss/draw counters.
// Created lazily on first query or first completed game; counters are
// monotonically incremented and never reset.
type GameStats struct {
	PlayerID   PlayerID `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	Draws      int      `json:"draws"`
}
