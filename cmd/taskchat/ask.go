package main

import (
	"strings"

	"github.com/spf13/cobra"

	"taskchat/internal/api"
	"taskchat/internal/config"
)

func newAskCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <message...>",
		Short:   "Ask a question about the loaded tasks",
		Example: "  taskchat ask show overdue tasks\n  taskchat ask \"who has the most tasks?\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			return withClient(cfg, func(client *api.Client) error {
				payload, err := client.Chat(cmd.Context(), message)
				if err != nil {
					return err
				}
				return writeOutput(payload)
			})
		},
	}
}
