package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream broadcast events from the server",
		Long: `Connect to the server's websocket endpoint and stream broadcast events.

Events include:
  - AvailableSessionsUpdated: the joinable-session list changed
  - PlayerRegistered, GameSessionCreated, GameStarted, MoveMade:
    addressed events, visible only when this connection is a recipient

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// WatchEvent is one streamed broadcast event
type WatchEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func watchEvents(jsonOutput bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", client.WebsocketURL(), err)
	}
	defer conn.Close()

	if !jsonOutput {
		fmt.Printf("Connected to %s, streaming events (Ctrl+C to stop)...\n", client.WebsocketURL())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	events := make(chan WatchEvent)
	errCh := make(chan error, 1)

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}

			var frame struct {
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(data, &frame); err != nil || frame.Event == "" {
				continue
			}

			events <- WatchEvent{Time: time.Now(), Event: frame.Event, Data: frame.Data}
		}
	}()

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case err := <-errCh:
			return fmt.Errorf("connection lost: %w", err)
		case ev := <-events:
			printWatchEvent(ev, jsonOutput)
		}
	}
}

func printWatchEvent(ev WatchEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(ev)
		fmt.Println(string(data))
		return
	}
	fmt.Printf("[%s] %s %s\n", ev.Time.Format("15:04:05"), ev.Event, string(ev.Data))
}
