package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <player-id>",
		Short: "Show a player's win/loss/draw record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats Stats

			if err := client.Get("/api/v1/players/"+args[0]+"/stats", &stats); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(stats)
			return nil
		},
	}
}
