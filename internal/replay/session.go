package replay

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/Iron-Ham/scanform/internal/app"
	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/demo"
	"github.com/Iron-Ham/scanform/internal/dispatch"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/quantity"
	"github.com/Iron-Ham/scanform/internal/records"
)

// transcript serializes writes from the caller and the scan worker.
type transcript struct {
	mu sync.Mutex
	w  io.Writer
}

func (t *transcript) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

// Notifier prints warnings to the transcript and counts them.
type Notifier struct {
	out   *transcript
	mu    sync.Mutex
	count int
}

// Warn implements host.Notifier.
func (n *Notifier) Warn(title, body string) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
	n.out.printf("  ! %s: %s\n", title, body)
}

// Count returns the number of warnings shown so far.
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// Modal holds the prompts opened by the quantity capture until the script
// answers them.
type Modal struct {
	mu      sync.Mutex
	pending []host.Prompt
}

// Open implements host.Modal.
func (m *Modal) Open(p host.Prompt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, p)
}

// Take removes and returns the oldest open prompt.
func (m *Modal) Take() (host.Prompt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return host.Prompt{}, false
	}
	p := m.pending[0]
	m.pending = m.pending[1:]
	return p, true
}

// Session is a started scan core over a demo editor.
type Session struct {
	App      *app.App
	Editor   *demo.Editor
	Modal    *Modal
	Notifier *Notifier

	out  *transcript
	subs []string
}

// NewSession assembles and starts the core for cfg over editor. The
// transcript of every step is written to out.
func NewSession(cfg *config.Config, editor *demo.Editor, out io.Writer, logger *logging.Logger) (*Session, error) {
	t := &transcript{w: out}
	s := &Session{
		Editor:   editor,
		Modal:    &Modal{},
		Notifier: &Notifier{out: t},
		out:      t,
	}
	s.App = app.New(cfg, app.Deps{
		Host:     editor,
		Notifier: s.Notifier,
		Modal:    s.Modal,
		Logger:   logger,
	})
	editor.SetRefresher(s.App.Refresher)

	quantitySet := s.App.Bus.Subscribe(event.TypeQuantitySet, func(e event.Event) {
		if qs, ok := e.(event.QuantitySetEvent); ok {
			t.printf("  = line %s quantity %s\n", qs.RecordID, formatQty(qs.Quantity))
		}
	})
	recordMissing := s.App.Bus.Subscribe(event.TypeRecordMissing, func(e event.Event) {
		if rm, ok := e.(event.RecordMissingEvent); ok {
			t.printf("  ? %s not displayed\n", rm.Barcode)
		}
	})
	s.subs = []string{quantitySet, recordMissing}

	if err := s.App.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run executes steps in order. Each scan is waited for before the next
// step, so the transcript is deterministic.
func (s *Session) Run(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := s.step(ctx, step); err != nil {
			return fmt.Errorf("line %d: %w", step.Line, err)
		}
	}
	return nil
}

// Play executes the steps of a script as its lines arrive, e.g. from an
// operator typing on a terminal. Invalid lines are reported and skipped.
func (s *Session) Play(ctx context.Context, r io.Reader) error {
	return Scan(r, func(step Step, err error) error {
		if err != nil {
			s.out.printf("  ! %v\n", err)
			return nil
		}
		if err := s.step(ctx, step); err != nil {
			return fmt.Errorf("line %d: %w", step.Line, err)
		}
		return nil
	})
}

func (s *Session) step(ctx context.Context, step Step) error {
	switch step.Kind {
	case StepScan:
		s.out.printf("scan %s\n", step.Arg)
		res := s.App.Handler.OnScan(ctx, step.Arg)
		if res.Ticket == nil {
			s.out.printf("  -> %s\n", describe(res))
			return nil
		}
		err := res.Ticket.Wait(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Failures were already reported through the notifier.
		if err != nil {
			s.out.printf("  -> failed\n")
		} else {
			s.out.printf("  -> applied\n")
		}
		return nil

	case StepQuantity:
		s.out.printf("qty %s\n", step.Arg)
		digit := []rune(step.Arg)[0]
		if !s.App.Quantity.HandleKey(quantity.KeyPress{Rune: digit}) {
			s.out.printf("  -> key ignored\n")
			return nil
		}
		prompt, ok := s.Modal.Take()
		if !ok {
			return nil
		}
		// Confirm reports its own failures.
		_ = prompt.Confirm(ctx, step.Arg)
		return nil

	case StepPending:
		s.out.printf("pending %s = %s\n", step.Arg, step.Value)
		s.Editor.SetPending(step.Arg, step.Value)
		return nil

	case StepView:
		s.out.printf("view %s\n", step.Arg)
		s.Editor.SetViewKind(records.Kind(step.Arg))
		return nil

	case StepMode:
		s.out.printf("mode %s\n", step.Arg)
		s.Editor.SetMode(host.Mode(step.Arg))
		return nil
	}
	return fmt.Errorf("unsupported step %s", step.Kind)
}

// Close stops the core, draining queued scans.
func (s *Session) Close(ctx context.Context) error {
	err := s.App.Stop(ctx)
	for _, id := range s.subs {
		s.App.Bus.Unsubscribe(id)
	}
	s.subs = nil
	return err
}

func describe(res dispatch.Result) string {
	switch res.Kind {
	case dispatch.ResultCommand:
		if res.Err != nil {
			return "command " + res.Keyword + " failed"
		}
		return "command " + res.Keyword
	case dispatch.ResultRejected:
		return "rejected"
	default:
		return res.Kind.String()
	}
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
