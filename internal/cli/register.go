package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <name>",
		Short: "Register a player identity with the server",
		Long: `Register a new player identity over the websocket protocol.

Registering the same name twice creates a second, separate identity with a
disambiguated display name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
			if err != nil {
				return fmt.Errorf("connecting to %s: %w", client.WebsocketURL(), err)
			}
			defer conn.Close()

			invocation := map[string]any{
				"id":     "1",
				"method": "registerPlayer",
				"args":   map[string]string{"name": args[0]},
			}
			if err := conn.WriteJSON(invocation); err != nil {
				return fmt.Errorf("sending registration: %w", err)
			}

			// Read frames until the registration event arrives; unrelated
			// broadcasts may interleave
			deadline := time.Now().Add(10 * time.Second)
			for {
				conn.SetReadDeadline(deadline)
				_, data, err := conn.ReadMessage()
				if err != nil {
					return fmt.Errorf("waiting for registration: %w", err)
				}

				var frame struct {
					Event string          `json:"event"`
					Data  json.RawMessage `json:"data"`
				}
				if err := json.Unmarshal(data, &frame); err != nil {
					continue
				}
				if frame.Event != "PlayerRegistered" {
					continue
				}

				var registration Registration
				if err := json.Unmarshal(frame.Data, &registration); err != nil {
					return fmt.Errorf("parsing registration: %w", err)
				}

				out := NewOutput(cfg.Output)
				out.Print(registration)
				return nil
			}
		},
	}
}
