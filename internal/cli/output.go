package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Registration:
		o.printRegistration(v)
	case []SessionSummary:
		o.printSessions(v)
	case Stats:
		o.printStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Registration response type (matches the PlayerRegistered event)
type Registration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// SessionSummary response type (matches the session wire shape)
type SessionSummary struct {
	ID          string    `json:"id"`
	SessionName string    `json:"sessionName"`
	CreatorName string    `json:"creatorName"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Stats response type
type Stats struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegistration(r Registration) {
	fmt.Printf("Registered as %s\n", r.DisplayName)
	fmt.Printf("  ID:   %s\n", r.ID)
	fmt.Printf("  Name: %s\n", r.Name)
}

func (o *Output) printSessions(sessions []SessionSummary) {
	if len(sessions) == 0 {
		fmt.Println("No sessions waiting for players")
		return
	}

	fmt.Printf("%-16s %-24s %-16s %s\n", "ID", "NAME", "CREATOR", "CREATED")
	for _, s := range sessions {
		name := s.SessionName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Printf("%-16s %-24s %-16s %s\n",
			s.ID, name, s.CreatorName, s.CreatedAt.Local().Format(time.RFC3339))
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Stats for %s (%s)\n", s.PlayerName, s.PlayerID)
	fmt.Printf("  Wins:   %d\n", s.Wins)
	fmt.Printf("  Losses: %d\n", s.Losses)
	fmt.Printf("  Draws:  %d\n", s.Draws)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Server status: %s\n", strings.ToUpper(h.Status))
}
