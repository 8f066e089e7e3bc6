package main

import (
	"github.com/spf13/cobra"

	"taskchat/internal/api"
	"taskchat/internal/config"
)

func newRefreshCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch tasks from ClickUp on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				return writeOutput(resp)
			})
		},
	}
}
