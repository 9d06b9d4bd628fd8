package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/replay"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a script of scans against a demo picking",
	Long: `Run a script of scans against a demo picking and print what happened.

The script has one scan per line. Lines starting with @ simulate the
operator instead of the scanner:

  O-CMD.EDIT             scan a command barcode
  8412345678900          scan a product
  @qty 12                press 1, then confirm 12 in the quantity dialog
  @pending origin PO-7   leave an uncommitted edit in a form field
  @view kanban           show the picking lines as cards (or list)
  @mode edit             switch the form mode by hand (edit or view)
  # comment

Without a script file, lines are read from standard input and run as they
are typed. The final state of the picking is printed as YAML.

Examples:
  # Replay a script against the built-in sample pickings
  scanform replay receipt.scan

  # Use your own pickings and kanban cards
  scanform replay receipt.scan --pickings pickings.yaml --kanban`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replayDemo  demoFlags
	replayQuiet bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayDemo.register(replayCmd)
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "Do not print the final picking state")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	in, interactive, closeIn, err := openScript(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	editor, err := newDemoEditor(cfg, replayDemo, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	session, err := replay.NewSession(cfg, editor, out, logger)
	if err != nil {
		return fmt.Errorf("failed to start scan handler: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var runErr error
	if interactive {
		fmt.Fprintln(cmd.ErrOrStderr(), "Scan or type one barcode per line; Ctrl+D to finish.")
		runErr = session.Play(ctx, in)
	} else {
		var steps []replay.Step
		steps, runErr = replay.Read(in)
		if runErr == nil {
			runErr = session.Run(ctx, steps)
		}
	}
	closeErr := session.Close(ctx)

	if !replayQuiet {
		if err := dumpSnapshot(out, editor.Snapshot()); err != nil {
			return err
		}
	}
	return errors.Join(runErr, closeErr)
}

// openScript returns the script reader and whether an operator is typing it.
func openScript(cmd *cobra.Command, args []string) (io.Reader, bool, func(), error) {
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, false, nil, fmt.Errorf("failed to open script: %w", err)
		}
		return f, false, func() { _ = f.Close() }, nil
	}

	in := cmd.InOrStdin()
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return in, interactive, func() {}, nil
}

func dumpSnapshot(w io.Writer, snapshot any) error {
	fmt.Fprintln(w, "---")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode picking state: %w", err)
	}
	return enc.Close()
}
