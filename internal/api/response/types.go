package response

// PlayerName is the stored per-client player name
type PlayerName struct {
	Name string `json:"name"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
