package request

// SetPlayerNameRequest is the body for PUT /api/v1/player-name
type SetPlayerNameRequest struct {
	Name string `json:"name"`
}
