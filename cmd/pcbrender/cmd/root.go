// Package cmd assembles the pcbrender CLI: a Cobra root command with
// a single render subcommand. Grounded in jpfielding-dicos.go's
// cmd/ctl/cmd package (PersistentPreRun installing a leveled slog
// logger before any subcommand body runs).
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"pcbrender/internal/obslog"
)

// NewRoot builds the pcbrender root command.
func NewRoot(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "pcbrender",
		Short: "render RS-274X Gerber and Excellon drill files into raster images",
		Long:  "pcbrender interprets Gerber/Excellon PCB fabrication artifacts and rasterizes them, directed by a JSON render script.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			jsonLogs, _ := cmd.Flags().GetBool("log-json")
			logFile, _ := cmd.Flags().GetString("log-file")

			logger, err := obslog.New(obslog.Config{
				Level:    strings.ToLower(level),
				JSON:     jsonLogs,
				FilePath: logFile,
			})
			if err != nil {
				return fmt.Errorf("configuring logging: %w", err)
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("log-json", false, "emit logs as JSON lines instead of text")
	pf.String("log-file", "", "also write rotating logs to this path")

	root.AddCommand(newRenderCmd(ctx))
	return root
}
