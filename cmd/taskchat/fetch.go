package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"taskchat/internal/config"
	"taskchat/internal/export"
)

func newFetchCmd(cfg *config.Config) *cobra.Command {
	var (
		outputPath string
		rawFormat  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch tasks straight from ClickUp and write an export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := export.ParseFormat(rawFormat)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = format.FileName()
			}

			logger := slog.Default().With("component", "fetch")
			provider, err := newProvider(cfg, logger)
			if err != nil {
				return err
			}

			started := time.Now()
			tasks, err := provider.FetchTasks(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("fetched tasks", "count", len(tasks), "duration", time.Since(started))

			w, closeFn, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			rows, err := export.Write(w, format, tasks)
			if closeErr := closeFn(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			if outputPath != "-" {
				return writePlain("wrote %d tasks to %s\n", rows, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file, - for stdout (default: taskchat_export.<format>)")
	cmd.Flags().StringVar(&rawFormat, "format", string(export.CSV), fmt.Sprintf("file format (%s or %s)", export.CSV, export.XLSX))
	return cmd
}
