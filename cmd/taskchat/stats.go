package main

import (
	"github.com/spf13/cobra"

	"taskchat/internal/api"
	"taskchat/internal/config"
)

func newStatsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show snapshot status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return writeOutput(resp)
			})
		},
	}
}
