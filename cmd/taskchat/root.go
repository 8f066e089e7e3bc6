package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskchat/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "taskchat",
		Short:         "Taskchat answers questions about ClickUp tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel, logWriter(cfg))
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			setOutputFormat(jsonOutput)
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newAskCmd(cfg),
		newStatsCmd(cfg),
		newRefreshCmd(cfg),
		newExportCmd(cfg),
		newFetchCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
