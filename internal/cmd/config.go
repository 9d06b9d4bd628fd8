package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify scanform configuration",
	Long: `View or modify scanform configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  scanform config set barcode.field default_code
  scanform config set barcode.prefix_match_length 8
  scanform config set barcode.commands.save O-CMD.SAVE

Valid keys:
  barcode.field                 - Field receiving scanned values
  barcode.quantity_field        - Record key written by the quantity dialog ("" disables it)
  barcode.match_attribute       - Record key compared against scanned barcodes
  barcode.prefix_match_length   - Leading characters compared by the fallback match (0 disables it)
  barcode.commands.<command>    - Barcode of new, edit, cancel, save, pager_prev, pager_next
  scroll.enabled                - Scroll to the scanned record (true/false)
  cue.enabled                   - Ring the terminal bell on success and error (true/false)
  cue.use_sound                 - Also play sound files (true/false)
  cue.player                    - Sound player command (e.g. afplay, aplay)
  cue.success_sound             - Sound file played on success
  cue.error_sound               - Sound file played on error
  logging.enabled               - Write debug logs (true/false)
  logging.level                 - Options: debug, info, warn, error
  logging.dir                   - Log directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/scanform/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n\n", err)
		cfg = config.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// settableKeys maps every key accepted by config set to its value type.
var settableKeys = map[string]string{
	"barcode.field":               "string",
	"barcode.quantity_field":      "string",
	"barcode.match_attribute":     "string",
	"barcode.prefix_match_length": "int",
	"barcode.commands.new":        "string",
	"barcode.commands.edit":       "string",
	"barcode.commands.cancel":     "string",
	"barcode.commands.save":       "string",
	"barcode.commands.pager_prev": "string",
	"barcode.commands.pager_next": "string",
	"scroll.enabled":              "bool",
	"cue.enabled":                 "bool",
	"cue.use_sound":               "bool",
	"cue.player":                  "string",
	"cue.success_sound":           "string",
	"cue.error_sound":             "string",
	"logging.enabled":             "bool",
	"logging.level":               "string",
	"logging.dir":                 "string",
}

// parseSetting converts value to the type expected for key.
func parseSetting(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'scanform config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	default:
		if key == "logging.level" && !slices.Contains(config.ValidLogLevels(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	typedValue, err := parseSetting(key, value)
	if err != nil {
		return err
	}

	// Set the value in viper and make sure the result still validates
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("refusing to save invalid configuration: %w", err)
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to the active config file, or the default location
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigContent is the commented file written by config init.
const defaultConfigContent = `# Scanform Configuration

barcode:
  # Editor field receiving scanned values
  field: barcode
  # Record key written by the quantity dialog; empty disables digit capture
  quantity_field: product_qty
  # Record key compared against scanned barcodes
  match_attribute: product_barcode
  # When no record matches exactly, match on this many leading characters
  # (0 disables the fallback)
  prefix_match_length: 7
  # Barcodes triggering editor commands; an empty value disables a command
  commands:
    new: O-CMD.NEW
    edit: O-CMD.EDIT
    cancel: O-CMD.CANCEL
    save: O-CMD.SAVE
    pager_prev: O-CMD.PAGER-PREV
    pager_next: O-CMD.PAGER-NEXT
  # Tokens starting with these prefixes are dropped silently
  reserved_prefixes:
    - O-CMD
    - O-BTN
  # Glob patterns for more tokens to drop silently, e.g. "LOC-*"
  reserved_patterns: []

scroll:
  # Scroll to the record matching the last scan once its list reloads
  enabled: true
  models:
    - stock.pack.operation
    - stock.inventory.line

cue:
  # Ring the terminal bell on success and error
  enabled: true
  # Also play sound files through player
  use_sound: false
  player: %s
  success_sound: ""
  error_sound: ""

logging:
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Defaults to ~/.config/scanform/logs
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'scanform config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(defaultConfigContent, config.Default().Cue.Player)
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize scanform's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/scanform/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: SCANFORM_* (e.g., SCANFORM_BARCODE_FIELD)")

	return nil
}
