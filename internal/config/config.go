// Package config holds the scanform configuration, loaded through viper from
// ~/.config/scanform/config.yaml and SCANFORM_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete scanform configuration
type Config struct {
	Barcode BarcodeConfig `mapstructure:"barcode" yaml:"barcode"`
	Scroll  ScrollConfig  `mapstructure:"scroll" yaml:"scroll"`
	Cue     CueConfig     `mapstructure:"cue" yaml:"cue"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// BarcodeConfig controls how scans are classified and applied
type BarcodeConfig struct {
	// Field is the editor field receiving scanned values
	Field string `mapstructure:"field" yaml:"field"`
	// QuantityField is the record key written by the quantity dialog.
	// Empty disables quantity capture.
	QuantityField string `mapstructure:"quantity_field" yaml:"quantity_field"`
	// MatchAttribute is the record key compared against scanned barcodes
	MatchAttribute string `mapstructure:"match_attribute" yaml:"match_attribute"`
	// PrefixMatchLength is how many leading characters the fallback match
	// compares (0 disables the fallback)
	PrefixMatchLength int `mapstructure:"prefix_match_length" yaml:"prefix_match_length"`
	// Commands maps editor commands to their barcodes
	Commands CommandsConfig `mapstructure:"commands" yaml:"commands"`
	// ReservedPrefixes are token prefixes dropped without feedback
	ReservedPrefixes []string `mapstructure:"reserved_prefixes" yaml:"reserved_prefixes"`
	// ReservedPatterns are glob patterns for tokens dropped without feedback
	ReservedPatterns []string `mapstructure:"reserved_patterns" yaml:"reserved_patterns"`
}

// CommandsConfig holds the command barcodes. An empty value disables the
// command.
type CommandsConfig struct {
	New       string `mapstructure:"new" yaml:"new"`
	Edit      string `mapstructure:"edit" yaml:"edit"`
	Cancel    string `mapstructure:"cancel" yaml:"cancel"`
	Save      string `mapstructure:"save" yaml:"save"`
	PagerPrev string `mapstructure:"pager_prev" yaml:"pager_prev"`
	PagerNext string `mapstructure:"pager_next" yaml:"pager_next"`
}

// Keywords returns the non-empty command barcodes.
func (c CommandsConfig) Keywords() []string {
	var kws []string
	for _, kw := range []string{c.New, c.Edit, c.Cancel, c.Save, c.PagerPrev, c.PagerNext} {
		if kw != "" {
			kws = append(kws, kw)
		}
	}
	return kws
}

// ScrollConfig controls scrolling to scanned records
type ScrollConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Models lists the sub-view models that scroll and play cues
	Models []string `mapstructure:"models" yaml:"models"`
}

// CueConfig controls audible feedback
type CueConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// UseSound plays sound files through Player in addition to the bell
	UseSound     bool   `mapstructure:"use_sound" yaml:"use_sound"`
	Player       string `mapstructure:"player" yaml:"player"`
	SuccessSound string `mapstructure:"success_sound" yaml:"success_sound"`
	ErrorSound   string `mapstructure:"error_sound" yaml:"error_sound"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled writes logs to Dir (stderr when Dir is empty)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Barcode: BarcodeConfig{
			Field:             "barcode",
			QuantityField:     "product_qty",
			MatchAttribute:    "product_barcode",
			PrefixMatchLength: 7,
			Commands: CommandsConfig{
				New:       "O-CMD.NEW",
				Edit:      "O-CMD.EDIT",
				Cancel:    "O-CMD.CANCEL",
				Save:      "O-CMD.SAVE",
				PagerPrev: "O-CMD.PAGER-PREV",
				PagerNext: "O-CMD.PAGER-NEXT",
			},
			ReservedPrefixes: []string{"O-CMD", "O-BTN"},
			ReservedPatterns: []string{},
		},
		Scroll: ScrollConfig{
			Enabled: true,
			Models:  []string{"stock.pack.operation", "stock.inventory.line"},
		},
		Cue: CueConfig{
			Enabled:  true,
			UseSound: false,
			Player:   defaultPlayer(),
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     "",
		},
	}
}

func defaultPlayer() string {
	if _, err := os.Stat("/usr/bin/afplay"); err == nil {
		return "afplay"
	}
	return "aplay"
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Barcode defaults
	viper.SetDefault("barcode.field", defaults.Barcode.Field)
	viper.SetDefault("barcode.quantity_field", defaults.Barcode.QuantityField)
	viper.SetDefault("barcode.match_attribute", defaults.Barcode.MatchAttribute)
	viper.SetDefault("barcode.prefix_match_length", defaults.Barcode.PrefixMatchLength)
	viper.SetDefault("barcode.commands.new", defaults.Barcode.Commands.New)
	viper.SetDefault("barcode.commands.edit", defaults.Barcode.Commands.Edit)
	viper.SetDefault("barcode.commands.cancel", defaults.Barcode.Commands.Cancel)
	viper.SetDefault("barcode.commands.save", defaults.Barcode.Commands.Save)
	viper.SetDefault("barcode.commands.pager_prev", defaults.Barcode.Commands.PagerPrev)
	viper.SetDefault("barcode.commands.pager_next", defaults.Barcode.Commands.PagerNext)
	viper.SetDefault("barcode.reserved_prefixes", defaults.Barcode.ReservedPrefixes)
	viper.SetDefault("barcode.reserved_patterns", defaults.Barcode.ReservedPatterns)

	// Scroll defaults
	viper.SetDefault("scroll.enabled", defaults.Scroll.Enabled)
	viper.SetDefault("scroll.models", defaults.Scroll.Models)

	// Cue defaults
	viper.SetDefault("cue.enabled", defaults.Cue.Enabled)
	viper.SetDefault("cue.use_sound", defaults.Cue.UseSound)
	viper.SetDefault("cue.player", defaults.Cue.Player)
	viper.SetDefault("cue.success_sound", defaults.Cue.SuccessSound)
	viper.SetDefault("cue.error_sound", defaults.Cue.ErrorSound)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scanform")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scanform"
	}
	return filepath.Join(home, ".config", "scanform")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
