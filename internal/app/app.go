// Package app assembles the scan core from a configuration: the dispatch
// handler, the quantity capture, the scroll refresher, and the cue player,
// all sharing one event bus, logger, last-scanned slot and scroll intent.
package app

import (
	"context"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/cue"
	"github.com/Iron-Ham/scanform/internal/dispatch"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/quantity"
	"github.com/Iron-Ham/scanform/internal/records"
	"github.com/Iron-Ham/scanform/internal/scroll"
)

// Host is the record-editing application the core is embedded in.
type Host interface {
	host.Editor
	host.RecordSource
	host.RecordUpdater
}

// Deps are the collaborators supplied by the embedding UI.
type Deps struct {
	Host     Host
	Notifier host.Notifier
	Modal    host.Modal
	// Capabilities is probed for command actions; defaults to Host.
	Capabilities any
	PreApply     dispatch.PreApplyHook
	Bus          *event.Bus
	Logger       *logging.Logger
}

// App is an assembled scan core.
type App struct {
	Bus       *event.Bus
	Handler   *dispatch.Handler
	Quantity  *quantity.Machine
	Refresher *scroll.Refresher
	Cue       *cue.Player

	logger *logging.Logger
}

// New assembles the core for cfg. Nothing runs until Start. The host must
// route its sub-view reloads to App.Refresher itself.
func New(cfg *config.Config, deps Deps) *App {
	logger := logging.OrNop(deps.Logger)
	bus := deps.Bus
	if bus == nil {
		bus = event.NewBus(logger)
	}

	last := &dispatch.LastScanned{}
	intent := &scroll.Intent{}
	player := cue.NewPlayer(CueConfig(cfg), logger)

	var scroller scroll.Scroller
	if s, ok := deps.Host.(scroll.Scroller); ok {
		scroller = s
	}
	refresher := scroll.NewRefresher(scroll.Options{
		Intent:   intent,
		Resolver: Resolver(cfg),
		Scroller: scroller,
		Cue:      player,
		Models:   ScrollModels(cfg),
		Bus:      bus,
		Logger:   logger,
	})

	opts := []dispatch.Option{
		dispatch.WithScrollIntent(intent),
		dispatch.WithLastScanned(last),
		dispatch.WithBus(bus),
		dispatch.WithLogger(logger),
	}
	if deps.Capabilities != nil {
		opts = append(opts, dispatch.WithCapabilities(deps.Capabilities))
	}
	if deps.PreApply != nil {
		opts = append(opts, dispatch.WithPreApplyHook(deps.PreApply))
	}
	handler := dispatch.New(deps.Host, deps.Notifier, HandlerConfig(cfg), opts...)

	machine := quantity.New(quantity.Deps{
		Editor:      deps.Host,
		LastScanned: last,
		Source:      deps.Host,
		Updater:     deps.Host,
		Modal:       deps.Modal,
		Notifier:    deps.Notifier,
		Bus:         bus,
		Logger:      logger,
	}, QuantityConfig(cfg))

	return &App{
		Bus:       bus,
		Handler:   handler,
		Quantity:  machine,
		Refresher: refresher,
		Cue:       player,
		logger:    logger.WithComponent("app"),
	}
}

// Start starts the handler and, when a quantity field is configured, the
// quantity capture.
func (a *App) Start() error {
	if err := a.Handler.Start(); err != nil {
		return err
	}
	a.Quantity.Start()
	return nil
}

// Stop stops the quantity capture and drains the scan queue.
func (a *App) Stop(ctx context.Context) error {
	a.Quantity.Stop()
	return a.Handler.Stop(ctx)
}

// Apply pushes a reloaded configuration into every component. The command
// table and reserved sets take effect for the next scan.
func (a *App) Apply(cfg *config.Config) error {
	if err := a.Handler.Reconfigure(HandlerConfig(cfg)); err != nil {
		return err
	}
	a.Quantity.SetConfig(QuantityConfig(cfg))
	a.Refresher.SetModels(ScrollModels(cfg))
	a.Cue.UpdateConfig(CueConfig(cfg))
	a.logger.Info("configuration applied")
	return nil
}

// Reload is a config.ReloadFunc applying valid reloads and logging the
// rejected ones.
func (a *App) Reload(path string, cfg *config.Config, err error) {
	if err == nil {
		err = a.Apply(cfg)
	}
	if err != nil {
		a.logger.Warn("config reload rejected", "path", path, "error", err.Error())
	}
	a.Bus.Publish(event.NewConfigReloadedEvent(path, err))
}

// HandlerConfig maps cfg onto the dispatch configuration.
func HandlerConfig(cfg *config.Config) dispatch.Config {
	c := cfg.Barcode.Commands
	return dispatch.Config{
		Field: cfg.Barcode.Field,
		Keywords: dispatch.Keywords{
			New:       c.New,
			Edit:      c.Edit,
			Cancel:    c.Cancel,
			Save:      c.Save,
			PagerPrev: c.PagerPrev,
			PagerNext: c.PagerNext,
		},
		ReservedPrefixes: cfg.Barcode.ReservedPrefixes,
		ReservedPatterns: cfg.Barcode.ReservedPatterns,
	}
}

// Resolver returns the record resolver configured by cfg.
func Resolver(cfg *config.Config) records.Resolver {
	return records.NewResolver(cfg.Barcode.MatchAttribute, cfg.Barcode.PrefixMatchLength)
}

// QuantityConfig maps cfg onto the quantity capture configuration.
func QuantityConfig(cfg *config.Config) quantity.Config {
	return quantity.Config{Field: cfg.Barcode.QuantityField, Resolver: Resolver(cfg)}
}

// ScrollModels returns the models that scroll; none when scrolling is off.
func ScrollModels(cfg *config.Config) []string {
	if !cfg.Scroll.Enabled {
		return nil
	}
	return cfg.Scroll.Models
}

// CueConfig maps cfg onto the cue player configuration.
func CueConfig(cfg *config.Config) cue.Config {
	return cue.Config{
		Enabled:      cfg.Cue.Enabled,
		UseSound:     cfg.Cue.UseSound,
		Player:       cfg.Cue.Player,
		SuccessSound: cfg.Cue.SuccessSound,
		ErrorSound:   cfg.Cue.ErrorSound,
	}
}
