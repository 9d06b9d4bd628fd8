// Package barrier drains pending field edits before a scan is applied.
package barrier

import (
	"context"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/host"
)

// Drain commits every field's pending edit in enumeration order, waiting for
// the editor's onchange cascades to settle after each commit. It returns nil
// once every commit and cascade has resolved.
//
// An editor with no fields returns immediately without consulting the
// cascade signal. A failing commit stops the walk and is returned as a
// *errors.FieldError.
func Drain(ctx context.Context, editor host.Editor) error {
	for _, f := range editor.Fields() {
		if err := f.CommitPendingEdit(ctx); err != nil {
			return errors.NewFieldError(f.Name(), err)
		}
		if err := editor.CascadeSettled(ctx); err != nil {
			return errors.Wrapf(err, "waiting for %s onchange", f.Name())
		}
	}
	return nil
}
