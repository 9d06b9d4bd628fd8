package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReloadFunc receives the configuration reloaded from path. cfg is nil and
// err set when the new file does not load or validate; the caller keeps its
// previous configuration then.
type ReloadFunc func(path string, cfg *Config, err error)

// Watch calls fn every time the active config file is written. It has no
// effect when no config file is in use.
func Watch(fn ReloadFunc) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(reloadHandler(fn))
	viper.WatchConfig()
	return true
}

// reloadHandler adapts fn to viper's change callback. viper has already
// re-read the file when the callback runs.
func reloadHandler(fn ReloadFunc) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err != nil {
			fn(e.Name, nil, err)
			return
		}
		fn(e.Name, cfg, nil)
	}
}
