package dispatch

import (
	"context"
	"sync"

	"github.com/Iron-Ham/scanform/internal/barrier"
	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/matcher"
	"github.com/Iron-Ham/scanform/internal/scanqueue"
	"github.com/Iron-Ham/scanform/internal/scroll"
)

// PreApplyHook runs after pending edits are drained and before the token is
// written. Returning false vetoes the scan silently.
type PreApplyHook func(ctx context.Context, token string) (bool, error)

func proceed(context.Context, string) (bool, error) { return true, nil }

// Config is the reloadable part of the handler's setup.
type Config struct {
	// Field is the editor field receiving scanned values.
	Field            string
	Keywords         Keywords
	ReservedPrefixes []string
	ReservedPatterns []string
}

// DefaultConfig returns a Config targeting the "barcode" field.
func DefaultConfig() Config {
	return Config{
		Field:            "barcode",
		Keywords:         DefaultKeywords(),
		ReservedPrefixes: []string{"O-CMD", "O-BTN"},
	}
}

// ResultKind is what OnScan did with a token.
type ResultKind int

const (
	// ResultCommand means a bound command ran.
	ResultCommand ResultKind = iota
	// ResultReserved means the token was dropped.
	ResultReserved
	// ResultRejected means the token was refused before queueing.
	ResultRejected
	// ResultQueued means the token was queued for application.
	ResultQueued
)

// String returns the string representation of the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultCommand:
		return "command"
	case ResultReserved:
		return "reserved"
	case ResultRejected:
		return "rejected"
	case ResultQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// Result reports the outcome of OnScan.
type Result struct {
	Kind ResultKind
	// Keyword is the command keyword for ResultCommand.
	Keyword string
	// Ticket tracks the application task for ResultQueued.
	Ticket *scanqueue.Ticket
	// Err is the command error for ResultCommand or the reason for
	// ResultRejected.
	Err error
}

// Option configures a Handler.
type Option func(*Handler)

// WithScrollIntent sets the intent armed for every applied scan.
func WithScrollIntent(intent *scroll.Intent) Option {
	return func(h *Handler) { h.intent = intent }
}

// WithPreApplyHook sets the hook run before each write.
func WithPreApplyHook(hook PreApplyHook) Option {
	return func(h *Handler) { h.hook = hook }
}

// WithLastScanned shares an existing last-scanned slot.
func WithLastScanned(last *LastScanned) Option {
	return func(h *Handler) { h.last = last }
}

// WithCapabilities sets the object probed for command capabilities. It
// defaults to the editor.
func WithCapabilities(target any) Option {
	return func(h *Handler) { h.capabilities = target }
}

// WithBus sets the bus receiving scan events.
func WithBus(bus *event.Bus) Option {
	return func(h *Handler) { h.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// Handler receives raw scans for one editor.
type Handler struct {
	editor       host.Editor
	notifier     host.Notifier
	capabilities any
	hook         PreApplyHook
	intent       *scroll.Intent
	last         *LastScanned
	bus          *event.Bus
	logger       *logging.Logger

	mu      sync.RWMutex
	config  Config
	matcher *matcher.Matcher
	queue   *scanqueue.Queue
}

// New creates a Handler. It accepts scans once started.
func New(editor host.Editor, notifier host.Notifier, config Config, opts ...Option) *Handler {
	h := &Handler{
		editor:   editor,
		notifier: notifier,
		config:   config,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.capabilities == nil {
		h.capabilities = editor
	}
	if h.hook == nil {
		h.hook = proceed
	}
	if h.intent == nil {
		h.intent = &scroll.Intent{}
	}
	if h.last == nil {
		h.last = &LastScanned{}
	}
	if h.notifier == nil {
		h.notifier = host.NotifierFunc(func(string, string) {})
	}
	h.logger = logging.OrNop(h.logger).WithComponent("dispatch")
	return h
}

// LastScanned returns the handler's last-scanned slot.
func (h *Handler) LastScanned() *LastScanned { return h.last }

// Intent returns the scroll intent armed by applied scans.
func (h *Handler) Intent() *scroll.Intent { return h.intent }

// Start binds the command table and starts the scan queue. Starting a
// started handler is a no-op.
func (h *Handler) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.queue != nil {
		return nil
	}
	m, err := h.buildMatcher(h.config)
	if err != nil {
		return err
	}
	h.matcher = m
	h.queue = scanqueue.New(h.bus, h.logger)
	h.logger.Info("scan handler started", "field", h.config.Field, "commands", len(m.Keywords()))
	return nil
}

// Stop refuses new scans and waits, bounded by ctx, for the queued ones to
// finish.
func (h *Handler) Stop(ctx context.Context) error {
	h.mu.Lock()
	q := h.queue
	h.queue = nil
	h.matcher = nil
	h.mu.Unlock()

	if q == nil {
		return nil
	}
	err := q.Close(ctx)
	h.logger.Info("scan handler stopped")
	return err
}

// Reconfigure replaces the configuration. A started handler rebinds its
// command table immediately; scans already queued keep the field they were
// queued for.
func (h *Handler) Reconfigure(config Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.queue != nil {
		m, err := h.buildMatcher(config)
		if err != nil {
			return err
		}
		h.matcher = m
	}
	h.config = config
	h.logger.Info("scan handler reconfigured", "field", config.Field)
	return nil
}

func (h *Handler) buildMatcher(config Config) (*matcher.Matcher, error) {
	return matcher.New(matcher.Options{
		Commands:         BuildActions(h.capabilities, config.Keywords),
		ReservedPrefixes: config.ReservedPrefixes,
		ReservedPatterns: config.ReservedPatterns,
	})
}

// OnScan handles one raw scan token. It returns once the token is
// classified: commands have run, values are queued.
func (h *Handler) OnScan(ctx context.Context, token string) Result {
	h.bus.Publish(event.NewScanReceivedEvent(token))
	h.last.Set(token)

	h.mu.RLock()
	m, q, field := h.matcher, h.queue, h.config.Field
	h.mu.RUnlock()

	logger := h.logger.WithScan(token)
	if q == nil {
		logger.Warn("scan received while stopped")
		return Result{Kind: ResultRejected, Err: errors.ErrHandlerStopped}
	}

	match := m.Classify(token)
	switch match.Kind {
	case matcher.KindCommand:
		return h.runCommand(ctx, logger, match)
	case matcher.KindReserved:
		rejected := event.NewScanRejectedEvent(token, "reserved")
		if kw, ok := m.Suggest(token); ok {
			logger.Debug("reserved token resembles a bound command", "keyword", kw)
			rejected = rejected.WithSuggestion(kw)
		}
		h.bus.Publish(rejected)
		return Result{Kind: ResultReserved}
	}

	if h.editor.Mode() == host.ModeView {
		h.report(logger, "scan rejected, editor in view mode", errors.ErrNotEditable)
		h.bus.Publish(event.NewScanRejectedEvent(token, "not_editable"))
		return Result{Kind: ResultRejected, Err: errors.ErrNotEditable}
	}

	ticket := q.Enqueue(token, func(ctx context.Context) error {
		err := h.apply(ctx, field, token)
		if err != nil {
			h.report(logger, "scan failed", err)
		}
		return err
	})
	if err := ticket.Err(); errors.Is(err, errors.ErrQueueClosed) {
		return Result{Kind: ResultRejected, Err: err}
	}
	return Result{Kind: ResultQueued, Ticket: ticket}
}

func (h *Handler) runCommand(ctx context.Context, logger *logging.Logger, match matcher.Match) Result {
	err := match.Action(ctx)
	h.bus.Publish(event.NewCommandInvokedEvent(match.Keyword, err))
	if err != nil {
		err = errors.NewScanError(match.Token, errors.StageCommand, err)
		h.report(logger.With("keyword", match.Keyword), "command failed", err)
	} else {
		logger.Debug("command invoked", "keyword", match.Keyword)
	}
	return Result{Kind: ResultCommand, Keyword: match.Keyword, Err: err}
}

// apply is the body of a queued scan.
func (h *Handler) apply(ctx context.Context, field, token string) error {
	if err := barrier.Drain(ctx, h.editor); err != nil {
		return errors.NewScanError(token, errors.StageBarrier, err)
	}

	ok, err := h.hook(ctx, token)
	if err != nil {
		return errors.NewScanError(token, errors.StageHook, err)
	}
	if !ok {
		h.logger.Debug("scan vetoed by pre-apply hook", "token", token)
		return nil
	}

	h.intent.Arm(token)
	h.last.Set(token)

	if err := h.editor.WriteValue(ctx, field, token); err != nil {
		return errors.NewScanError(token, errors.StageWrite, err)
	}
	if err := h.editor.CascadeSettled(ctx); err != nil {
		return errors.NewScanError(token, errors.StageCascade, err)
	}
	return nil
}

// report logs err at the level of its severity and shows it to the operator.
func (h *Handler) report(logger *logging.Logger, msg string, err error) {
	severity := errors.GetSeverity(err)
	logger.Log(severity.Level(), msg, "error", err.Error(), "severity", severity.String())
	h.notifier.Warn(errors.Title(err), errors.Hint(err))
}
