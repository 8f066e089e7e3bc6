package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskchat/internal/api"
	"taskchat/internal/config"
	"taskchat/internal/export"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var (
		outputPath string
		rawFormat  string
		question   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download tasks from the server as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(rawFormat)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = format.FileName()
			}

			return withClient(cfg, func(client *api.Client) error {
				w, closeFn, err := openOutput(outputPath)
				if err != nil {
					return err
				}
				if question != "" {
					err = client.ExportQuery(cmd.Context(), question, string(format), w)
				} else {
					err = client.Export(cmd.Context(), string(format), w)
				}
				if closeErr := closeFn(); err == nil {
					err = closeErr
				}
				if err != nil {
					return err
				}
				if outputPath != "-" {
					return writePlain("wrote %s\n", outputPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file, - for stdout (default: taskchat_export.<format>)")
	cmd.Flags().StringVar(&rawFormat, "format", string(export.CSV), fmt.Sprintf("file format (%s or %s)", export.CSV, export.XLSX))
	cmd.Flags().StringVar(&question, "query", "", "export only the rows this question selects")
	return cmd
}
