package demo

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/records"
)

type recordingRefresher struct {
	mu       sync.Mutex
	searches []*records.SubView
	reloaded []string
}

func (r *recordingRefresher) AfterSearch(ctx context.Context, sv *records.SubView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, sv)
	return nil
}

func (r *recordingRefresher) RecordReloaded(ctx context.Context, model string, rec records.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloaded = append(r.reloaded, model+"/"+rec.ID())
	return nil
}

func newTestEditor(t *testing.T) (*Editor, *recordingRefresher) {
	t.Helper()
	opts := DefaultOptions()
	opts.CascadeDelay = 5 * time.Millisecond
	e := NewEditor(opts, SamplePickings()...)
	r := &recordingRefresher{}
	e.SetRefresher(r)
	return e, r
}

func settle(t *testing.T, e *Editor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.CascadeSettled(ctx))
}

func lineQty(e *Editor, id string) float64 {
	for _, l := range e.Snapshot().Lines {
		if l.ID == id {
			return l.Quantity
		}
	}
	return -1
}

func TestWriteValue_BarcodeCascade(t *testing.T) {
	e, r := newTestEditor(t)
	ctx := context.Background()

	require.ErrorIs(t, e.WriteValue(ctx, "barcode", "8412345678900"), errors.ErrNotEditable)

	require.NoError(t, e.Edit(ctx))
	require.NoError(t, e.WriteValue(ctx, "barcode", "8412345678900"))
	settle(t, e)

	require.Equal(t, 1.0, lineQty(e, "101"))
	require.Equal(t, "8412345678900", e.Snapshot().Values["barcode"])
	require.Len(t, r.searches, 1)
	require.Equal(t, "stock.pack.operation", r.searches[0].Model)

	// Prefix fallback reaches the desk lamp.
	require.NoError(t, e.WriteValue(ctx, "barcode", "8401234599999"))
	settle(t, e)
	require.Equal(t, 1.0, lineQty(e, "102"))

	// Unknown products still refresh the view.
	require.NoError(t, e.WriteValue(ctx, "barcode", "999"))
	settle(t, e)
	require.Len(t, r.searches, 3)
}

func TestCascadeSettled(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.CascadeSettled(context.Background()), "idle editor settles immediately")

	opts := DefaultOptions()
	opts.CascadeDelay = time.Second
	slow := NewEditor(opts, SamplePickings()...)
	slow.SetMode(host.ModeEdit)
	require.NoError(t, slow.WriteValue(context.Background(), "origin", "x"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, slow.CascadeSettled(ctx), context.DeadlineExceeded)
}

func TestCommitPendingEdit(t *testing.T) {
	e, _ := newTestEditor(t)
	ctx := context.Background()
	e.SetPending("origin", "PO99999")

	fields := e.Fields()
	require.Len(t, fields, 3)
	require.Equal(t, "origin", fields[1].Name())

	require.ErrorIs(t, fields[1].CommitPendingEdit(ctx), errors.ErrNotEditable)

	e.SetMode(host.ModeEdit)
	require.NoError(t, fields[0].CommitPendingEdit(ctx), "no pending edit is a no-op")
	require.NoError(t, fields[1].CommitPendingEdit(ctx))
	settle(t, e)

	snap := e.Snapshot()
	require.Equal(t, "PO99999", snap.Values["origin"])
	require.Empty(t, snap.Pending)
}

func TestSubView(t *testing.T) {
	e, _ := newTestEditor(t)

	sv := e.ActiveSubView()
	require.Equal(t, records.KindList, sv.Kind)
	require.Len(t, sv.Rows, 4)
	require.Empty(t, sv.Rows[3].Get("product_barcode"), "missing barcodes render empty")

	e.SetViewKind(records.KindKanban)
	sv = e.ActiveSubView()
	require.Len(t, sv.Cards, 4)
	require.Equal(t, "8412345678900", sv.Cards[0].Get("product_barcode"))
}

func TestUpdateAndReloadRecord(t *testing.T) {
	e, r := newTestEditor(t)
	ctx := context.Background()

	require.NoError(t, e.UpdateRecord(ctx, "103", map[string]any{"product_qty": 12.0}))
	require.Equal(t, 12.0, lineQty(e, "103"))

	require.ErrorIs(t, e.UpdateRecord(ctx, "999", map[string]any{"product_qty": 1.0}), errors.ErrRecordNotFound)
	require.ErrorIs(t, e.UpdateRecord(ctx, "103", map[string]any{"product": "x"}), errors.ErrInvalidInput)
	require.ErrorIs(t, e.UpdateRecord(ctx, "103", map[string]any{"product_qty": "12"}), errors.ErrInvalidInput)

	rec := records.NewRow(map[string]any{"id": "103"})
	require.NoError(t, e.ReloadRecord(ctx, rec))
	require.Equal(t, []string{"stock.pack.operation/103"}, r.reloaded)

	require.NoError(t, e.ScrollTo(ctx, rec))
	require.Equal(t, "103", e.Focused())
}

func TestCapabilities(t *testing.T) {
	e, _ := newTestEditor(t)
	ctx := context.Background()

	require.NoError(t, e.Next(ctx))
	require.Equal(t, "WH/IN/00013", e.Snapshot().Picking)
	require.NoError(t, e.Next(ctx))
	require.Equal(t, "WH/IN/00012", e.Snapshot().Picking, "pager wraps around")
	require.NoError(t, e.Previous(ctx))
	require.Equal(t, "WH/IN/00013", e.Snapshot().Picking)

	require.NoError(t, e.New(ctx))
	snap := e.Snapshot()
	require.Equal(t, host.ModeEdit, snap.Mode)
	require.Equal(t, "New/1", snap.Picking)
	require.Empty(t, snap.Lines)

	e.SetPending("origin", "draft")
	require.Error(t, e.Next(ctx), "pager refuses to leave unsaved edits")
	require.NoError(t, e.Cancel(ctx))
	require.Equal(t, host.ModeView, e.Mode())
	require.Empty(t, e.Snapshot().Values["origin"])

	require.NoError(t, e.Edit(ctx))
	e.SetPending("origin", "kept")
	require.NoError(t, e.Save(ctx))
	require.Equal(t, host.ModeView, e.Mode())
	require.Equal(t, "kept", e.Snapshot().Values["origin"])
}

func TestSnapshot_SortedValues(t *testing.T) {
	s := Snapshot{Values: map[string]string{"b": "2", "a": "1"}}
	require.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, s.SortedValues())
}

func TestLoadPickings(t *testing.T) {
	src := `
pickings:
  - name: WH/OUT/0001
    values: {partner_id: Gemini Furniture}
    lines:
      - {id: "1", product: Chair, barcode: "8412345678900"}
      - {id: "2", product: Lamp, barcode: "8401234500017", quantity: 3}
`
	pickings, err := LoadPickings(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, pickings, 1)
	require.Equal(t, "WH/OUT/0001", pickings[0].Name)
	require.Equal(t, 3.0, pickings[0].Lines[1].Quantity)

	for name, bad := range map[string]string{
		"empty":        "pickings: []\n",
		"missing id":   "pickings:\n  - name: x\n    lines:\n      - {product: a}\n",
		"duplicate id": "pickings:\n  - name: x\n    lines:\n      - {id: \"1\"}\n      - {id: \"1\"}\n",
		"not yaml":     "pickings: [",
	} {
		_, err := LoadPickings(strings.NewReader(bad))
		require.Error(t, err, name)
	}
}
