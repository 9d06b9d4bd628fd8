package demo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/records"
)

// Line is one operation line of a picking.
type Line struct {
	ID       string  `yaml:"id"`
	Product  string  `yaml:"product"`
	Barcode  string  `yaml:"barcode"`
	Quantity float64 `yaml:"quantity"`
}

// Picking is one record reachable through the pager.
type Picking struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
	Lines  []Line            `yaml:"lines"`
}

// Refresher is notified when the lines sub-view reloads.
type Refresher interface {
	AfterSearch(ctx context.Context, sv *records.SubView) error
	RecordReloaded(ctx context.Context, model string, rec records.View) error
}

// Options configures an Editor.
type Options struct {
	// Model names the lines sub-view model.
	Model string
	// FormFields are the editor's fields, in enumeration order.
	FormFields []string
	// BarcodeField receives scans; its cascade bumps line quantities.
	BarcodeField   string
	MatchAttribute string
	QuantityField  string
	PrefixLen      int
	// ViewKind selects list rows or kanban cards for the lines.
	ViewKind records.Kind
	// CascadeDelay slows every onchange cascade down.
	CascadeDelay time.Duration
	Logger       *logging.Logger
}

// DefaultOptions returns options for a stock.pack.operation picking.
func DefaultOptions() Options {
	return Options{
		Model:          "stock.pack.operation",
		FormFields:     []string{"partner_id", "origin", "barcode"},
		BarcodeField:   "barcode",
		MatchAttribute: "product_barcode",
		QuantityField:  "product_qty",
		PrefixLen:      records.DefaultPrefixLen,
		ViewKind:       records.KindList,
	}
}

// Editor is an in-memory picking form. Safe for concurrent use.
type Editor struct {
	opts     Options
	resolver records.Resolver
	logger   *logging.Logger

	mu        sync.Mutex
	mode      host.Mode
	pickings  []*Picking
	index     int
	pending   map[string]string
	focused   string
	refresher Refresher
	created   int

	cascades int
	idle     chan struct{}
}

// NewEditor creates an editor over pickings, showing the first one in view
// mode. With no pickings it starts on an empty one.
func NewEditor(opts Options, pickings ...*Picking) *Editor {
	if len(pickings) == 0 {
		pickings = []*Picking{{Name: "New"}}
	}
	for _, p := range pickings {
		if p.Values == nil {
			p.Values = map[string]string{}
		}
	}
	return &Editor{
		opts:     opts,
		resolver: records.NewResolver(opts.MatchAttribute, opts.PrefixLen),
		logger:   logging.OrNop(opts.Logger).WithComponent("demo"),
		mode:     host.ModeView,
		pickings: pickings,
		pending:  map[string]string{},
	}
}

// SetRefresher sets the collaborator notified on sub-view reloads.
func (e *Editor) SetRefresher(r Refresher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refresher = r
}

// SetViewKind switches the lines sub-view between list and kanban.
func (e *Editor) SetViewKind(kind records.Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.ViewKind = kind
}

// SetMode switches the editor mode.
func (e *Editor) SetMode(mode host.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
}

// SetPending records an in-progress edit of field, as if typed by the user.
func (e *Editor) SetPending(field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending[field] = value
}

func (e *Editor) current() *Picking { return e.pickings[e.index] }

// -----------------------------------------------------------------------------
// host.Editor
// -----------------------------------------------------------------------------

// Fields implements host.Editor.
func (e *Editor) Fields() []host.Field {
	fields := make([]host.Field, 0, len(e.opts.FormFields))
	for _, name := range e.opts.FormFields {
		fields = append(fields, &formField{name: name, editor: e})
	}
	return fields
}

// Mode implements host.Editor.
func (e *Editor) Mode() host.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// WriteValue implements host.Editor.
func (e *Editor) WriteValue(ctx context.Context, field, value string) error {
	e.mu.Lock()
	if e.mode != host.ModeEdit {
		e.mu.Unlock()
		return errors.ErrNotEditable
	}
	e.current().Values[field] = value
	delete(e.pending, field)
	e.mu.Unlock()

	e.schedule(field, value)
	return nil
}

// CascadeSettled implements host.Editor.
func (e *Editor) CascadeSettled(ctx context.Context) error {
	e.mu.Lock()
	if e.cascades == 0 {
		e.mu.Unlock()
		return nil
	}
	idle := e.idle
	e.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type formField struct {
	name   string
	editor *Editor
}

func (f *formField) Name() string { return f.name }

// CommitPendingEdit moves the field's pending edit into the record.
func (f *formField) CommitPendingEdit(ctx context.Context) error {
	e := f.editor
	e.mu.Lock()
	value, ok := e.pending[f.name]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	if e.mode != host.ModeEdit {
		e.mu.Unlock()
		return errors.ErrNotEditable
	}
	delete(e.pending, f.name)
	e.current().Values[f.name] = value
	e.mu.Unlock()

	e.schedule(f.name, value)
	return nil
}

// -----------------------------------------------------------------------------
// Onchange cascades
// -----------------------------------------------------------------------------

func (e *Editor) schedule(field, value string) {
	e.mu.Lock()
	if e.cascades == 0 {
		e.idle = make(chan struct{})
	}
	e.cascades++
	delay := e.opts.CascadeDelay
	e.mu.Unlock()

	go func() {
		defer e.settle()
		if delay > 0 {
			time.Sleep(delay)
		}
		e.onchange(field, value)
	}()
}

func (e *Editor) settle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cascades--
	if e.cascades == 0 {
		close(e.idle)
	}
}

// onchange runs a field's cascade. The barcode cascade counts one more unit
// on the matching line and reloads the lines.
func (e *Editor) onchange(field, value string) {
	if field != e.opts.BarcodeField || value == "" {
		return
	}

	e.mu.Lock()
	sv := e.subViewLocked()
	rec, err := e.resolver.Resolve(records.Collect(sv), value)
	if err == nil {
		if line := e.lineLocked(rec.ID()); line != nil {
			line.Quantity++
			sv = e.subViewLocked()
		}
	}
	refresher := e.refresher
	e.mu.Unlock()

	if err != nil {
		e.logger.Debug("scanned product not on picking", "barcode", value)
	}
	if refresher != nil {
		if err := refresher.AfterSearch(context.Background(), sv); err != nil {
			e.logger.Warn("sub-view refresh failed", "error", err.Error())
		}
	}
}

// -----------------------------------------------------------------------------
// Records
// -----------------------------------------------------------------------------

// ActiveSubView implements host.RecordSource.
func (e *Editor) ActiveSubView() *records.SubView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subViewLocked()
}

func (e *Editor) subViewLocked() *records.SubView {
	sv := &records.SubView{Kind: e.opts.ViewKind, Model: e.opts.Model}
	for _, l := range e.current().Lines {
		values := map[string]any{
			records.IDKey:         l.ID,
			"product":             l.Product,
			e.opts.MatchAttribute: l.Barcode,
			e.opts.QuantityField:  l.Quantity,
		}
		if l.Barcode == "" {
			values[e.opts.MatchAttribute] = false
		}
		if sv.Kind == records.KindKanban {
			sv.Cards = append(sv.Cards, records.NewCard(values))
		} else {
			sv.Rows = append(sv.Rows, records.NewRow(values))
		}
	}
	return sv
}

func (e *Editor) lineLocked(id string) *Line {
	lines := e.current().Lines
	for i := range lines {
		if lines[i].ID == id {
			return &lines[i]
		}
	}
	return nil
}

// UpdateRecord implements host.RecordUpdater. Only the quantity field is
// writable.
func (e *Editor) UpdateRecord(ctx context.Context, id string, values map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.lineLocked(id)
	if line == nil {
		return errors.NewNotFoundError("record", id)
	}
	for key, v := range values {
		if key != e.opts.QuantityField {
			return errors.NewValidationError("field is read-only").WithField(key)
		}
		qty, ok := v.(float64)
		if !ok {
			return errors.NewValidationError("quantity must be a number").WithField(key).WithValue(v)
		}
		line.Quantity = qty
	}
	return nil
}

// ReloadRecord implements host.RecordUpdater.
func (e *Editor) ReloadRecord(ctx context.Context, rec records.View) error {
	e.mu.Lock()
	refresher := e.refresher
	e.mu.Unlock()
	if refresher == nil {
		return nil
	}
	return refresher.RecordReloaded(ctx, e.opts.Model, rec)
}

// ScrollTo implements scroll.Scroller by focusing the line.
func (e *Editor) ScrollTo(ctx context.Context, rec records.View) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = rec.ID()
	return nil
}

// Focused returns the ID of the line last scrolled to.
func (e *Editor) Focused() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// -----------------------------------------------------------------------------
// Capabilities
// -----------------------------------------------------------------------------

// New implements host.Creator.
func (e *Editor) New(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created++
	e.pickings = append(e.pickings, &Picking{
		Name:   fmt.Sprintf("New/%d", e.created),
		Values: map[string]string{},
	})
	e.index = len(e.pickings) - 1
	e.pending = map[string]string{}
	e.mode = host.ModeEdit
	return nil
}

// Edit implements host.EditStarter.
func (e *Editor) Edit(ctx context.Context) error {
	e.SetMode(host.ModeEdit)
	return nil
}

// Cancel implements host.Canceller by dropping pending edits.
func (e *Editor) Cancel(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = map[string]string{}
	e.mode = host.ModeView
	return nil
}

// Save implements host.Saver. It waits for running cascades first.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.CascadeSettled(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for field, value := range e.pending {
		e.current().Values[field] = value
	}
	e.pending = map[string]string{}
	e.mode = host.ModeView
	return nil
}

// Previous implements host.Pager.
func (e *Editor) Previous(ctx context.Context) error { return e.move(-1) }

// Next implements host.Pager.
func (e *Editor) Next(ctx context.Context) error { return e.move(1) }

func (e *Editor) move(delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) > 0 {
		return errors.NewValidationError("unsaved changes; save or cancel first")
	}
	n := len(e.pickings)
	e.index = ((e.index+delta)%n + n) % n
	e.mode = host.ModeView
	e.focused = ""
	return nil
}

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

// Snapshot is a point-in-time copy of the editor state.
type Snapshot struct {
	Mode    host.Mode         `yaml:"mode"`
	Picking string            `yaml:"picking"`
	Values  map[string]string `yaml:"values"`
	Pending map[string]string `yaml:"pending,omitempty"`
	Lines   []Line            `yaml:"lines"`
	Focused string            `yaml:"focused,omitempty"`
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.current()
	s := Snapshot{
		Mode:    e.mode,
		Picking: p.Name,
		Values:  make(map[string]string, len(p.Values)),
		Lines:   append([]Line(nil), p.Lines...),
		Focused: e.focused,
	}
	for k, v := range p.Values {
		s.Values[k] = v
	}
	if len(e.pending) > 0 {
		s.Pending = make(map[string]string, len(e.pending))
		for k, v := range e.pending {
			s.Pending[k] = v
		}
	}
	return s
}

// FieldNames returns the form fields in enumeration order.
func (e *Editor) FieldNames() []string {
	return append([]string(nil), e.opts.FormFields...)
}

// SortedValues returns the current picking's values ordered by key.
func (s Snapshot) SortedValues() [][2]string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, s.Values[k]})
	}
	return out
}
