package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "scanform",
	Short: "Barcode scan processing for record editing forms",
	Long: `Scanform turns barcode scanner input into form edits: command keywords
drive the editor, every other scan is written into the barcode field once
pending edits are committed, and digit keys capture quantities for the last
scanned product.

Use 'scanform tui' to scan against a demo picking interactively, or
'scanform replay' to run a script of scans.`,
	SilenceUsage: true,
}

// Execute runs the root command. Commands stop when ctx is done.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/scanform/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/scanform")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SCANFORM")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SCANFORM_BARCODE_FIELD for barcode.field
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// logDir returns where the log file lives: the configured directory, or a
// logs directory next to the config file.
func logDir(cfg *config.Config) string {
	if cfg.Logging.Dir != "" {
		return cfg.Logging.Dir
	}
	return filepath.Join(config.ConfigDir(), "logs")
}

// newLogger returns the logger configured by cfg, or a no-op logger when
// logging is disabled. The TUI owns the terminal, so it never logs to stderr.
func newLogger(cfg *config.Config, toFile bool) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	dir := cfg.Logging.Dir
	if toFile {
		dir = logDir(cfg)
	}
	return logging.NewLogger(dir, logging.ParseLevel(cfg.Logging.Level))
}
