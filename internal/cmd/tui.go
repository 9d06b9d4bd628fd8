package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Scan against a demo picking in the terminal",
	Long: `Open a scan station over a demo picking.

Point a keyboard-wedge scanner at the terminal, or type barcodes and press
enter. Tab leaves the scan input; digit keys then open the quantity dialog
for the last scanned product. Ctrl+E switches between view and edit mode.

The scan configuration is reloaded when the config file changes. Logs go
to the log file (see 'scanform logs') since the screen belongs to the TUI.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var tuiDemo demoFlags

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiDemo.register(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	editor, err := newDemoEditor(cfg, tuiDemo, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, tui.Options{
		Config: cfg,
		Editor: editor,
		Kanban: tuiDemo.kanban,
		Logger: logger,
		Watch:  true,
	})
}
