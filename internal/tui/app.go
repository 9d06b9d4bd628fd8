package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/scanform/internal/app"
	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/demo"
	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/tui/msg"
	tea "github.com/charmbracelet/bubbletea"
)

// stopTimeout bounds how long quitting waits for queued scans.
const stopTimeout = 5 * time.Second

// Options configure Run.
type Options struct {
	Config *config.Config
	Editor *demo.Editor
	Kanban bool
	Logger *logging.Logger
	// Watch reloads the scan configuration when the config file changes.
	Watch bool
}

// Run assembles the scan core over opts.Editor and runs the scan station
// until the operator quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	logger := logging.OrNop(opts.Logger).WithComponent("tui")
	bridge := NewBridge()

	core := app.New(opts.Config, app.Deps{
		Host:     opts.Editor,
		Notifier: bridge,
		Modal:    bridge,
		Logger:   opts.Logger,
	})
	opts.Editor.SetRefresher(core.Refresher)
	sub := core.Bus.SubscribeAll(func(e event.Event) {
		bridge.Post(msg.EventMsg{Event: e})
	})
	if err := core.Start(); err != nil {
		return err
	}
	if opts.Watch && !config.Watch(core.Reload) {
		logger.Info("no config file to watch")
	}

	program := tea.NewProgram(
		NewModel(core, opts.Editor, opts.Kanban),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	pumpCtx, stopPump := context.WithCancel(ctx)
	defer stopPump()
	go bridge.Run(pumpCtx, program.Send)

	// Quit cleanly on termination so queued scans still drain
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case <-sigChan:
			program.Quit()
		case <-pumpCtx.Done():
		}
	}()

	logger.Info("scan station started")
	_, runErr := program.Run()
	signal.Stop(sigChan)
	stopPump()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	stopErr := core.Stop(stopCtx)
	core.Bus.Unsubscribe(sub)
	logger.Info("scan station stopped")

	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}
	return errors.Join(runErr, stopErr)
}
