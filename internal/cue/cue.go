// Package cue plays the audible feedback that accompanies scans: a success
// cue when a scanned record is reloaded and an error cue when a scanned
// barcode matches nothing on screen.
package cue

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/Iron-Ham/scanform/internal/logging"
	"golang.org/x/term"
)

// Config controls cue delivery.
type Config struct {
	Enabled bool
	// UseSound plays sound files through Player in addition to the bell.
	UseSound     bool
	Player       string
	SuccessSound string
	ErrorSound   string
}

// Kind identifies a cue.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Player delivers cues. The zero value is disabled. Safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	config Config
	out    io.Writer
	start  func(name string, args ...string) error
	logger *logging.Logger
}

// NewPlayer creates a Player ringing the bell on stdout when stdout is a
// terminal.
func NewPlayer(config Config, logger *logging.Logger) *Player {
	p := &Player{
		config: config,
		out:    bellOutput(os.Stdout),
		logger: logging.OrNop(logger).WithComponent("cue"),
	}
	p.start = func(name string, args ...string) error {
		return runDetached(exec.Command(name, args...), func(err error) {
			if err != nil {
				p.logger.Debug("cue player exited", "error", err.Error())
			}
		})
	}
	return p
}

// bellOutput returns f when it is a terminal and nil otherwise, so bells never
// land in piped or redirected output.
func bellOutput(f *os.File) io.Writer {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return f
}

// runDetached starts cmd without blocking the caller. A goroutine waits for
// the process to exit and passes the result to exited, if set.
func runDetached(cmd *exec.Cmd, exited func(error)) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		err := cmd.Wait()
		if exited != nil {
			exited(err)
		}
	}()
	return nil
}

// UpdateConfig replaces the configuration, e.g. after a config reload.
func (p *Player) UpdateConfig(config Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = config
}

// Success plays the success cue.
func (p *Player) Success() { p.Play(Success) }

// Error plays the error cue.
func (p *Player) Error() { p.Play(Error) }

// Play delivers the cue of the given kind. A nil Player is a no-op.
func (p *Player) Play(kind Kind) {
	if p == nil {
		return
	}
	p.mu.Lock()
	cfg := p.config
	out, start, logger := p.out, p.start, p.logger
	p.mu.Unlock()

	if !cfg.Enabled {
		return
	}
	if out != nil {
		_, _ = out.Write([]byte{'\a'})
	}
	if !cfg.UseSound || cfg.Player == "" || start == nil {
		return
	}

	sound := cfg.SuccessSound
	if kind == Error {
		sound = cfg.ErrorSound
	}
	if sound == "" {
		return
	}
	if err := start(cfg.Player, sound); err != nil {
		logging.OrNop(logger).Debug("cue player failed", "kind", string(kind), "error", err.Error())
	}
}
