package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyInGame   = errors.New("player is already in an active game")
	ErrCannotJoin      = errors.New("session cannot be joined")

	// Stats errors
	ErrStatsNotFound = errors.New("stats not found")

	// Client name store errors
	ErrClientNameNotFound = errors.New("client name not found")
)
