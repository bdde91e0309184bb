package cli

import (
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions waiting for a second player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sessions []SessionSummary

			if err := client.Get("/api/v1/sessions", &sessions); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(sessions)
			return nil
		},
	}
}
