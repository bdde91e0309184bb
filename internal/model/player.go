package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered participant.
//
// ID and DisplayName are fixed at registration. The connection fields track
// whichever client connection currently speaks for the player; a player is
// never deleted, so identity and stats survive reconnection.
type Player struct {
	ID           PlayerID  `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"displayName"`
	ConnectionID string    `json:"-"`
	Connected    bool      `json:"-"`
	LastActivity time.Time `json:"-"`
}
