package cmd

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/demo"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/records"
	"github.com/spf13/cobra"
)

// demoFlags are the flags shared by the commands running the demo editor.
type demoFlags struct {
	pickings string
	kanban   bool
}

func (f *demoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.pickings, "pickings", "p", "", "YAML file of pickings to scan against (default: built-in sample)")
	cmd.Flags().BoolVar(&f.kanban, "kanban", false, "Show picking lines as kanban cards instead of a list")
}

// newDemoEditor builds the demo picking editor with the field names and
// matching rules of cfg.
func newDemoEditor(cfg *config.Config, flags demoFlags, logger *logging.Logger) (*demo.Editor, error) {
	pickings := demo.SamplePickings()
	if flags.pickings != "" {
		f, err := os.Open(flags.pickings)
		if err != nil {
			return nil, fmt.Errorf("failed to open pickings file: %w", err)
		}
		defer f.Close()
		pickings, err = demo.LoadPickings(f)
		if err != nil {
			return nil, err
		}
	}

	opts := demo.DefaultOptions()
	opts.BarcodeField = cfg.Barcode.Field
	opts.MatchAttribute = cfg.Barcode.MatchAttribute
	opts.PrefixLen = cfg.Barcode.PrefixMatchLength
	if cfg.Barcode.QuantityField != "" {
		opts.QuantityField = cfg.Barcode.QuantityField
	}
	opts.FormFields = withField(opts.FormFields, cfg.Barcode.Field)
	if flags.kanban {
		opts.ViewKind = records.KindKanban
	}
	opts.Logger = logger

	return demo.NewEditor(opts, pickings...), nil
}

// withField appends name to fields unless present.
func withField(fields []string, name string) []string {
	for _, f := range fields {
		if f == name {
			return fields
		}
	}
	return append(fields, name)
}
