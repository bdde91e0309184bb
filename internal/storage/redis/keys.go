package redis

import (
	"fmt"

	"github.com/gridlive/gridlive/internal/model"
)

// Key prefix for all session server data
const keyPrefix = "gridlive"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the SET of all player keys
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// sessionKey returns the Redis key for a GameSession
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionIndexKey returns the Redis key for the SET of all session keys
func sessionIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// statsKey returns the Redis key for a player's GameStats
func statsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// clientNameKey returns the Redis key for a browser session's player name
func clientNameKey(token string) string {
	return fmt.Sprintf("%s:client_name:%s", keyPrefix, token)
}
