// Package quantity implements the "set quantity" capture: typing a digit
// while no input has focus opens a dialog whose confirmed value is written
// to the quantity field of the record matching the last scanned barcode.
package quantity

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Iron-Ham/scanform/internal/dispatch"
	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/records"
)

// DialogTitle is the title of the capture dialog.
const DialogTitle = "Set quantity"

// State is the capture state.
type State int

const (
	// Inactive ignores every key.
	Inactive State = iota
	// Listening waits for a digit.
	Listening
	// CaptureOpen has the dialog open.
	CaptureOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Listening:
		return "listening"
	case CaptureOpen:
		return "capture_open"
	default:
		return "unknown"
	}
}

// KeyPress is a raw key event.
type KeyPress struct {
	Rune rune
	// InputFocused is set when a text input owns the keyboard.
	InputFocused bool
}

// Deps are the collaborators of a Machine.
type Deps struct {
	Editor      host.Editor
	LastScanned *dispatch.LastScanned
	Source      host.RecordSource
	Updater     host.RecordUpdater
	Modal       host.Modal
	Notifier    host.Notifier
	Bus         *event.Bus
	Logger      *logging.Logger
}

// Config selects the field written and how records are matched.
type Config struct {
	// Field is the record key receiving the quantity. Empty disables
	// capture.
	Field    string
	Resolver records.Resolver
}

// Machine is the quantity capture state machine. Safe for concurrent use.
type Machine struct {
	deps   Deps
	logger *logging.Logger

	mu     sync.Mutex
	state  State
	config Config
}

// New creates a Machine in the Inactive state.
func New(deps Deps, config Config) *Machine {
	if deps.LastScanned == nil {
		deps.LastScanned = &dispatch.LastScanned{}
	}
	if deps.Notifier == nil {
		deps.Notifier = host.NotifierFunc(func(string, string) {})
	}
	return &Machine{
		deps:   deps,
		logger: logging.OrNop(deps.Logger).WithComponent("quantity"),
		config: config,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetConfig replaces the configuration. Clearing the field of a listening
// machine does not stop it; the next Start honours it.
func (m *Machine) SetConfig(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// Start begins listening for digits. It reports whether the machine is
// listening; it is not when no quantity field is configured.
func (m *Machine) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.Field == "" {
		return false
	}
	if m.state == Inactive {
		m.state = Listening
		m.logger.Debug("quantity capture listening", "field", m.config.Field)
	}
	return true
}

// Stop stops listening and forgets the last scanned barcode.
func (m *Machine) Stop() {
	m.mu.Lock()
	m.state = Inactive
	m.mu.Unlock()
	m.deps.LastScanned.Clear()
}

// HandleKey processes a raw key press and reports whether it opened the
// dialog or produced a warning.
func (m *Machine) HandleKey(k KeyPress) bool {
	m.mu.Lock()
	if m.state != Listening || k.InputFocused || k.Rune < '0' || k.Rune > '9' {
		m.mu.Unlock()
		return false
	}

	if m.deps.Editor != nil && m.deps.Editor.Mode() == host.ModeView {
		m.mu.Unlock()
		m.warn(m.logger, "quantity key in view mode", errors.ErrNotEditable)
		return true
	}
	if _, ok := m.deps.LastScanned.Get(); !ok {
		m.mu.Unlock()
		m.warn(m.logger, "quantity key before any scan", errors.ErrNoLastScanned)
		return true
	}

	m.state = CaptureOpen
	m.mu.Unlock()

	m.deps.Modal.Open(host.Prompt{
		Title:   DialogTitle,
		Value:   string(k.Rune),
		Confirm: m.Confirm,
		Discard: m.Discard,
	})
	return true
}

// Discard closes the dialog without writing.
func (m *Machine) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == CaptureOpen {
		m.state = Listening
	}
}

// Confirm parses input as the quantity for the last scanned record and
// writes it. The machine returns to Listening whatever the outcome. Errors
// are reported to the operator before being returned.
func (m *Machine) Confirm(ctx context.Context, input string) error {
	m.mu.Lock()
	if m.state != CaptureOpen {
		m.mu.Unlock()
		return nil
	}
	m.state = Listening
	config := m.config
	m.mu.Unlock()

	if err := m.apply(ctx, config, input); err != nil {
		m.warn(m.logger.With("input", input), "quantity not set", err)
		return err
	}
	return nil
}

func (m *Machine) apply(ctx context.Context, config Config, input string) error {
	qty, err := parseQuantity(input)
	if err != nil {
		return err
	}

	barcode, ok := m.deps.LastScanned.Get()
	if !ok {
		return errors.ErrNoLastScanned
	}

	var sv *records.SubView
	if m.deps.Source != nil {
		sv = m.deps.Source.ActiveSubView()
	}
	rec, err := config.Resolver.Resolve(records.Collect(sv), barcode)
	if err != nil {
		m.deps.Bus.Publish(event.NewRecordMissingEvent(barcode, "quantity"))
		return err
	}

	if err := m.deps.Updater.UpdateRecord(ctx, rec.ID(), map[string]any{config.Field: qty}); err != nil {
		return errors.Wrapf(err, "update record %s", rec.ID())
	}
	m.logger.Info("quantity set", "record", rec.ID(), "barcode", barcode, "quantity", qty)
	m.deps.Bus.Publish(event.NewQuantitySetEvent(rec.ID(), barcode, qty))

	if err := m.deps.Updater.ReloadRecord(ctx, rec); err != nil {
		return errors.Wrapf(err, "reload record %s", rec.ID())
	}
	return nil
}

// parseQuantity accepts a finite decimal number.
func parseQuantity(input string) (float64, error) {
	s := strings.TrimSpace(input)
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0, errors.NewValidationError("quantity must be a number").
			WithField("quantity").
			WithValue(s).
			WithCause(errors.ErrInvalidQuantity)
	}
	return qty, nil
}

// warn logs err at the level of its severity and shows it to the operator.
func (m *Machine) warn(logger *logging.Logger, msg string, err error) {
	severity := errors.GetSeverity(err)
	logger.Log(severity.Level(), msg, "error", err.Error(), "severity", severity.String())
	m.deps.Notifier.Warn(errors.Title(err), errors.Hint(err))
}
