package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Barcode.Field != "barcode" {
		t.Errorf("Barcode.Field = %q, want %q", cfg.Barcode.Field, "barcode")
	}
	if cfg.Barcode.QuantityField != "product_qty" {
		t.Errorf("Barcode.QuantityField = %q, want %q", cfg.Barcode.QuantityField, "product_qty")
	}
	if cfg.Barcode.MatchAttribute != "product_barcode" {
		t.Errorf("Barcode.MatchAttribute = %q", cfg.Barcode.MatchAttribute)
	}
	if cfg.Barcode.PrefixMatchLength != 7 {
		t.Errorf("Barcode.PrefixMatchLength = %d, want 7", cfg.Barcode.PrefixMatchLength)
	}
	if cfg.Barcode.Commands.Save != "O-CMD.SAVE" {
		t.Errorf("Barcode.Commands.Save = %q", cfg.Barcode.Commands.Save)
	}
	if len(cfg.Barcode.ReservedPrefixes) != 2 {
		t.Errorf("Barcode.ReservedPrefixes = %v", cfg.Barcode.ReservedPrefixes)
	}

	if !cfg.Scroll.Enabled {
		t.Error("Scroll.Enabled should be true by default")
	}
	if len(cfg.Scroll.Models) != 2 {
		t.Errorf("Scroll.Models = %v", cfg.Scroll.Models)
	}

	if !cfg.Cue.Enabled {
		t.Error("Cue.Enabled should be true by default")
	}
	if cfg.Cue.UseSound {
		t.Error("Cue.UseSound should be false by default")
	}
	if cfg.Cue.Player == "" {
		t.Error("Cue.Player should have a default")
	}

	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() does not validate: %v", ValidationErrors(errs))
	}
}

func TestCommandsConfig_Keywords(t *testing.T) {
	c := CommandsConfig{New: "N", Save: "S"}
	got := c.Keywords()
	if len(got) != 2 || got[0] != "N" || got[1] != "S" {
		t.Errorf("Keywords() = %v, want [N S]", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := ConfigDir(), "/custom/config/scanform"; got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "scanform"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := ConfigFile(), "/custom/config/scanform/config.yaml"; got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

// useConfigFile points viper at a fresh file holding content.
func useConfigFile(t *testing.T, content string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	useConfigFile(t, `
barcode:
  field: lot_name
  prefix_match_length: 5
  commands:
    save: SAVE-NOW
  reserved_patterns:
    - "LOT-*"
scroll:
  models: [mrp.production]
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Barcode.Field != "lot_name" {
		t.Errorf("Barcode.Field = %q", cfg.Barcode.Field)
	}
	if cfg.Barcode.PrefixMatchLength != 5 {
		t.Errorf("Barcode.PrefixMatchLength = %d", cfg.Barcode.PrefixMatchLength)
	}
	if cfg.Barcode.Commands.Save != "SAVE-NOW" {
		t.Errorf("Commands.Save = %q", cfg.Barcode.Commands.Save)
	}
	if cfg.Barcode.Commands.New != "O-CMD.NEW" {
		t.Errorf("Commands.New = %q, want default", cfg.Barcode.Commands.New)
	}
	if len(cfg.Barcode.ReservedPatterns) != 1 || cfg.Barcode.ReservedPatterns[0] != "LOT-*" {
		t.Errorf("ReservedPatterns = %v", cfg.Barcode.ReservedPatterns)
	}
	if len(cfg.Scroll.Models) != 1 || cfg.Scroll.Models[0] != "mrp.production" {
		t.Errorf("Scroll.Models = %v", cfg.Scroll.Models)
	}
}

func TestLoad_Invalid(t *testing.T) {
	useConfigFile(t, `
barcode:
  prefix_match_length: -1
logging:
  level: chatty
`)

	_, err := Load()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load() error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(verrs), verrs)
	}

	if cfg := Get(); cfg.Barcode.PrefixMatchLength != 7 {
		t.Error("Get() should fall back to defaults when the config is invalid")
	}
}

func TestReloadHandler(t *testing.T) {
	path := useConfigFile(t, "barcode:\n  field: barcode\n")

	var gotPath string
	var gotCfg *Config
	var gotErr error
	calls := 0
	handler := reloadHandler(func(p string, cfg *Config, err error) {
		calls++
		gotPath, gotCfg, gotErr = p, cfg, err
	})

	// Simulate viper having re-read a changed file.
	viper.Set("barcode.field", "lot_name")
	handler(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if calls != 1 || gotErr != nil || gotCfg == nil || gotCfg.Barcode.Field != "lot_name" || gotPath != path {
		t.Fatalf("reload = (%q, %+v, %v), calls=%d", gotPath, gotCfg, gotErr, calls)
	}

	viper.Set("logging.level", "chatty")
	handler(fsnotify.Event{Name: path, Op: fsnotify.Create})
	if calls != 2 || gotErr == nil || gotCfg != nil {
		t.Errorf("invalid reload should report an error and no config, got (%+v, %v)", gotCfg, gotErr)
	}

	handler(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	if calls != 2 {
		t.Error("chmod events should be ignored")
	}
}

func TestWatch_NoConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	if Watch(func(string, *Config, error) {}) {
		t.Error("Watch() should report false without a config file")
	}
}
