package dispatch

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/scroll"
)

const testTimeout = 2 * time.Second

// fakeEditor is an editable record that logs every call it receives.
type fakeEditor struct {
	mu       sync.Mutex
	mode     host.Mode
	fields   []host.Field
	values   map[string]string
	log      []string
	writeErr error
	saves    int
	created  int
	saveErr  error
}

func newFakeEditor() *fakeEditor {
	return &fakeEditor{mode: host.ModeEdit, values: map[string]string{}}
}

func (e *fakeEditor) record(entry string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, entry)
}

func (e *fakeEditor) entries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *fakeEditor) value(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[field]
}

func (e *fakeEditor) Fields() []host.Field {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields
}

func (e *fakeEditor) Mode() host.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *fakeEditor) CascadeSettled(ctx context.Context) error {
	e.record("settled")
	return nil
}

func (e *fakeEditor) WriteValue(ctx context.Context, field, value string) error {
	e.record("write:" + field + "=" + value)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.writeErr != nil {
		return e.writeErr
	}
	e.values[field] = value
	return nil
}

func (e *fakeEditor) Save(ctx context.Context) error {
	e.record("save")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saves++
	return e.saveErr
}

func (e *fakeEditor) New(ctx context.Context) error {
	e.record("new")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created++
	return nil
}

// fakeField commits through the editor log. A non-nil gate blocks the
// commit until closed.
type fakeField struct {
	name   string
	editor *fakeEditor
	gate   chan struct{}

	mu  sync.Mutex
	err error
}

func (f *fakeField) Name() string { return f.name }

func (f *fakeField) CommitPendingEdit(ctx context.Context) error {
	// The gate and the error apply to the first commit only.
	f.mu.Lock()
	gate, err := f.gate, f.err
	f.gate, f.err = nil, nil
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	f.editor.record("commit:" + f.name)
	return err
}

type warning struct{ title, body string }

type warnings struct {
	mu   sync.Mutex
	list []warning
}

func (w *warnings) Warn(title, body string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, warning{title, body})
}

func (w *warnings) all() []warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]warning(nil), w.list...)
}

func startHandler(t *testing.T, e *fakeEditor, opts ...Option) (*Handler, *warnings) {
	t.Helper()
	w := &warnings{}
	h := New(e, w, DefaultConfig(), opts...)
	require.NoError(t, h.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = h.Stop(ctx)
	})
	return h, w
}

func waitTicket(t *testing.T, res Result) error {
	t.Helper()
	require.Equal(t, ResultQueued, res.Kind)
	require.NotNil(t, res.Ticket)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	select {
	case <-res.Ticket.Done():
	case <-ctx.Done():
		t.Fatal("scan task did not settle")
	}
	return res.Ticket.Err()
}

func TestOnScan_ValueIsWritten(t *testing.T) {
	e := newFakeEditor()
	intent := &scroll.Intent{}
	h, w := startHandler(t, e, WithScrollIntent(intent))

	res := h.OnScan(context.Background(), "8412345678900")
	require.NoError(t, waitTicket(t, res))

	require.Equal(t, "8412345678900", e.value("barcode"))
	token, armed := intent.Armed()
	require.True(t, armed)
	require.Equal(t, "8412345678900", token)
	last, ok := h.LastScanned().Get()
	require.True(t, ok)
	require.Equal(t, "8412345678900", last)
	require.Empty(t, w.all())
}

func TestOnScan_CommandRunsOnceAndNeverWrites(t *testing.T) {
	e := newFakeEditor()
	bus := event.NewBus(nil)
	var queued int
	bus.Subscribe(event.TypeScanQueued, func(event.Event) { queued++ })

	h, _ := startHandler(t, e, WithBus(bus))

	res := h.OnScan(context.Background(), "O-CMD.SAVE")
	require.Equal(t, ResultCommand, res.Kind)
	require.Equal(t, "O-CMD.SAVE", res.Keyword)
	require.NoError(t, res.Err)
	require.Nil(t, res.Ticket)

	require.Equal(t, []string{"save"}, e.entries())
	require.Zero(t, queued)
	_, armed := h.Intent().Armed()
	require.False(t, armed)
}

func TestOnScan_CommandFailureIsReported(t *testing.T) {
	e := newFakeEditor()
	e.saveErr = errors.New("constraint violated")
	h, w := startHandler(t, e)

	res := h.OnScan(context.Background(), "O-CMD.SAVE")
	require.Equal(t, ResultCommand, res.Kind)
	require.ErrorContains(t, res.Err, "constraint violated")
	require.Len(t, w.all(), 1)
}

func TestOnScan_ReservedIsSilent(t *testing.T) {
	e := newFakeEditor()
	h, w := startHandler(t, e)

	for _, token := range []string{"O-BTN.validate", "O-CMD.UNKNOWN"} {
		res := h.OnScan(context.Background(), token)
		require.Equal(t, ResultReserved, res.Kind, token)
		require.NoError(t, res.Err)
	}

	require.Empty(t, e.entries())
	require.Empty(t, w.all())
	_, armed := h.Intent().Armed()
	require.False(t, armed)
	last, _ := h.LastScanned().Get()
	require.Equal(t, "O-CMD.UNKNOWN", last, "every scan updates the last-scanned slot")
}

func TestOnScan_ViewModeRejects(t *testing.T) {
	e := newFakeEditor()
	e.mode = host.ModeView
	h, w := startHandler(t, e)

	res := h.OnScan(context.Background(), "8412345678900")
	require.Equal(t, ResultRejected, res.Kind)
	require.ErrorIs(t, res.Err, errors.ErrNotEditable)
	require.Nil(t, res.Ticket)

	require.Equal(t, []warning{{
		title: "Error : Document not editable",
		body:  "To modify this document, please first start edition.",
	}}, w.all())
	require.Empty(t, e.entries())
}

func TestOnScan_FIFOBehindSlowCommit(t *testing.T) {
	e := newFakeEditor()
	gate := make(chan struct{})
	slow := &fakeField{name: "partner_id", editor: e, gate: gate}
	e.fields = []host.Field{slow}

	h, _ := startHandler(t, e)

	first := h.OnScan(context.Background(), "A")
	second := h.OnScan(context.Background(), "B")

	select {
	case <-second.Ticket.Done():
		t.Fatal("second scan ran while the first was still draining")
	case <-time.After(20 * time.Millisecond):
	}
	require.Empty(t, e.value("barcode"))
	close(gate)

	require.NoError(t, waitTicket(t, first))
	require.NoError(t, waitTicket(t, second))

	var writes []string
	for _, entry := range e.entries() {
		if entry == "write:barcode=A" || entry == "write:barcode=B" {
			writes = append(writes, entry)
		}
	}
	require.Equal(t, []string{"write:barcode=A", "write:barcode=B"}, writes)
	require.Equal(t, "B", e.value("barcode"))
}

func TestOnScan_BarrierPrecedesWrite(t *testing.T) {
	e := newFakeEditor()
	e.fields = []host.Field{
		&fakeField{name: "product_id", editor: e},
		&fakeField{name: "partner_id", editor: e},
	}
	h, _ := startHandler(t, e)

	require.NoError(t, waitTicket(t, h.OnScan(context.Background(), "840123")))

	require.Equal(t, []string{
		"commit:product_id", "settled",
		"commit:partner_id", "settled",
		"write:barcode=840123", "settled",
	}, e.entries())
}

func TestOnScan_FailureDoesNotBlockQueue(t *testing.T) {
	e := newFakeEditor()
	f := &fakeField{name: "partner_id", editor: e, err: errors.New("required")}
	e.fields = []host.Field{f}
	h, w := startHandler(t, e)

	first := h.OnScan(context.Background(), "A")
	second := h.OnScan(context.Background(), "B")

	err := waitTicket(t, first)
	require.ErrorIs(t, err, errors.ErrCommitFailed)
	var scanErr *errors.ScanError
	require.ErrorAs(t, err, &scanErr)
	require.Equal(t, errors.StageBarrier, scanErr.Stage)

	require.NoError(t, waitTicket(t, second))
	require.Equal(t, "B", e.value("barcode"))

	got := w.all()
	require.Len(t, got, 1)
	require.Equal(t, "Error : Could not save pending changes", got[0].title)
}

func TestOnScan_HookVeto(t *testing.T) {
	e := newFakeEditor()
	var hooked []string
	veto := func(ctx context.Context, token string) (bool, error) {
		hooked = append(hooked, token)
		return token != "VETO", nil
	}
	h, w := startHandler(t, e, WithPreApplyHook(veto))

	require.NoError(t, waitTicket(t, h.OnScan(context.Background(), "VETO")))
	require.Empty(t, e.value("barcode"))
	_, armed := h.Intent().Armed()
	require.False(t, armed)

	require.NoError(t, waitTicket(t, h.OnScan(context.Background(), "OK")))
	require.Equal(t, "OK", e.value("barcode"))
	require.Equal(t, []string{"VETO", "OK"}, hooked)
	require.Empty(t, w.all())
}

func TestOnScan_HookError(t *testing.T) {
	e := newFakeEditor()
	hook := func(ctx context.Context, token string) (bool, error) {
		return false, errors.New("hook exploded")
	}
	h, w := startHandler(t, e, WithPreApplyHook(hook))

	err := waitTicket(t, h.OnScan(context.Background(), "840123"))
	var scanErr *errors.ScanError
	require.ErrorAs(t, err, &scanErr)
	require.Equal(t, errors.StageHook, scanErr.Stage)
	require.Len(t, w.all(), 1)
	require.Equal(t, "Error : Scan failed", w.all()[0].title)
}

func TestOnScan_WriteError(t *testing.T) {
	e := newFakeEditor()
	e.writeErr = errors.New("readonly")
	h, _ := startHandler(t, e)

	err := waitTicket(t, h.OnScan(context.Background(), "840123"))
	var scanErr *errors.ScanError
	require.ErrorAs(t, err, &scanErr)
	require.Equal(t, errors.StageWrite, scanErr.Stage)
}

func TestOnScan_Stopped(t *testing.T) {
	e := newFakeEditor()
	h := New(e, nil, DefaultConfig())

	res := h.OnScan(context.Background(), "840123")
	require.Equal(t, ResultRejected, res.Kind)
	require.ErrorIs(t, res.Err, errors.ErrHandlerStopped)

	require.NoError(t, h.Start())
	require.NoError(t, h.Start(), "second Start is a no-op")
	require.NoError(t, waitTicket(t, h.OnScan(context.Background(), "840123")))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	require.NoError(t, h.Stop(ctx))
	require.NoError(t, h.Stop(ctx))

	res = h.OnScan(context.Background(), "840124")
	require.Equal(t, ResultRejected, res.Kind)
	require.ErrorIs(t, res.Err, errors.ErrHandlerStopped)
}

func TestReconfigure(t *testing.T) {
	e := newFakeEditor()
	h, _ := startHandler(t, e)

	cfg := DefaultConfig()
	cfg.Field = "lot_name"
	cfg.Keywords.Save = "SAVE-NOW"
	cfg.ReservedPatterns = []string{"LOT-*"}
	require.NoError(t, h.Reconfigure(cfg))

	require.Equal(t, ResultCommand, h.OnScan(context.Background(), "SAVE-NOW").Kind)
	require.Equal(t, ResultReserved, h.OnScan(context.Background(), "LOT-42").Kind)
	require.Equal(t, ResultReserved, h.OnScan(context.Background(), "O-CMD.SAVE").Kind)

	require.NoError(t, waitTicket(t, h.OnScan(context.Background(), "840123")))
	require.Equal(t, "840123", e.value("lot_name"))

	bad := cfg
	bad.ReservedPatterns = []string{"[oops"}
	require.Error(t, h.Reconfigure(bad))
}

func TestOnScan_PublishesEvents(t *testing.T) {
	e := newFakeEditor()
	bus := event.NewBus(nil)
	var mu sync.Mutex
	var types []string
	bus.SubscribeAll(func(ev event.Event) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, ev.EventType())
	})

	h, _ := startHandler(t, e, WithBus(bus))
	h.OnScan(context.Background(), "O-BTN.x")
	h.OnScan(context.Background(), "O-CMD.NEW")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{
		event.TypeScanReceived, event.TypeScanRejected,
		event.TypeScanReceived, event.TypeCommandInvoked,
	}, types)
}

func TestLastScanned(t *testing.T) {
	var l LastScanned
	_, ok := l.Get()
	require.False(t, ok)

	l.Set("")
	v, ok := l.Get()
	require.True(t, ok, "an empty scan still counts as scanned")
	require.Empty(t, v)

	l.Set("840123")
	l.Clear()
	_, ok = l.Get()
	require.False(t, ok)
}

func TestOnScan_ReservedNearCommandSuggests(t *testing.T) {
	e := newFakeEditor()
	bus := event.NewBus(nil)
	var rejected []event.ScanRejectedEvent
	bus.Subscribe(event.TypeScanRejected, func(ev event.Event) {
		rejected = append(rejected, ev.(event.ScanRejectedEvent))
	})

	h, w := startHandler(t, e, WithBus(bus))
	require.Equal(t, ResultReserved, h.OnScan(context.Background(), "O-CMD.SAVF").Kind)
	require.Equal(t, ResultReserved, h.OnScan(context.Background(), "O-BTN.validate").Kind)

	require.Len(t, rejected, 2)
	require.Equal(t, "O-CMD.SAVE", rejected[0].Suggestion)
	require.Empty(t, rejected[1].Suggestion)
	require.Empty(t, e.entries())
	require.Empty(t, w.all())
}

func TestOnScan_LogLevelFollowsSeverity(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, logging.LevelWarn)

	e := newFakeEditor()
	e.saveErr = errors.New("constraint violated")
	h, _ := startHandler(t, e, WithLogger(logger))

	h.OnScan(context.Background(), "O-CMD.SAVE")
	e.mu.Lock()
	e.mode = host.ModeView
	e.mu.Unlock()
	h.OnScan(context.Background(), "8412345678900")

	var failed, rejected string
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, `"msg":"command failed"`):
			failed = line
		case strings.Contains(line, `"msg":"scan rejected, editor in view mode"`):
			rejected = line
		}
	}
	require.Contains(t, failed, `"level":"ERROR"`)
	require.Contains(t, failed, `"keyword":"O-CMD.SAVE"`)
	require.Contains(t, rejected, `"level":"WARN"`)
	require.Contains(t, rejected, `"severity":"warning"`)
}
