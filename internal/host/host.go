// Package host declares the collaborators the scan core consumes from the
// record-editing application that embeds it. Implementations are called from
// both the UI goroutine and the scan worker goroutine and must be safe for
// concurrent use.
package host

import (
	"context"

	"github.com/Iron-Ham/scanform/internal/records"
)

// Mode is the editability mode of the host editor.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Field is one field registered on the host editor.
type Field interface {
	// Name returns the field key.
	Name() string

	// CommitPendingEdit writes the field's in-progress edit into the
	// editor's backing record. It may trigger an onchange cascade.
	CommitPendingEdit(ctx context.Context) error
}

// Editor is the field manager of the record being edited.
type Editor interface {
	// Fields enumerates the fields currently registered on the editor.
	Fields() []Field

	// Mode reports whether the editor currently accepts edits.
	Mode() Mode

	// CascadeSettled blocks until every onchange cascade scheduled so far
	// has finished. It returns early only when ctx is done.
	CascadeSettled(ctx context.Context) error

	// WriteValue sets field to value as if the user had typed it, which
	// schedules the field's onchange cascade.
	WriteValue(ctx context.Context, field, value string) error
}

// Optional editor capabilities. The dispatcher probes for them with type
// assertions when it starts and binds a command keyword only for the ones
// present.
type (
	// Creator starts a new record.
	Creator interface {
		New(ctx context.Context) error
	}

	// EditStarter switches the editor into edit mode.
	EditStarter interface {
		Edit(ctx context.Context) error
	}

	// Canceller discards the current edit.
	Canceller interface {
		Cancel(ctx context.Context) error
	}

	// Saver saves the current record.
	Saver interface {
		Save(ctx context.Context) error
	}

	// Pager moves between records of the current selection.
	Pager interface {
		Previous(ctx context.Context) error
		Next(ctx context.Context) error
	}

	// LegacyPager is the older pager entry point taking a direction
	// ("previous" or "next"). It wins over Pager when both are present.
	LegacyPager interface {
		ExecutePagerAction(ctx context.Context, direction string) error
	}
)

// Pager directions passed to LegacyPager.
const (
	DirectionPrevious = "previous"
	DirectionNext     = "next"
)

// Notifier shows blocking warnings to the operator.
type Notifier interface {
	Warn(title, body string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string)

// Warn calls f(title, body).
func (f NotifierFunc) Warn(title, body string) { f(title, body) }

// Prompt describes a modal dialog with one text input.
type Prompt struct {
	Title string
	// Value pre-fills the input.
	Value string
	// Confirm is invoked with the input's content when the operator
	// selects the primary action or presses Enter.
	Confirm func(ctx context.Context, value string) error
	// Discard is invoked when the operator closes the dialog.
	Discard func()
}

// Modal opens prompts. Open must not block waiting for the operator.
type Modal interface {
	Open(p Prompt)
}

// RecordSource returns the sub-view currently shown for the one-to-many
// field holding the picking lines. A nil result means no active view.
type RecordSource interface {
	ActiveSubView() *records.SubView
}

// RecordUpdater writes values on a displayed record and asks its view to
// reload it.
type RecordUpdater interface {
	UpdateRecord(ctx context.Context, id string, values map[string]any) error
	ReloadRecord(ctx context.Context, rec records.View) error
}
