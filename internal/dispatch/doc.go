// Package dispatch is the entry point for raw scans.
//
// A [Handler] classifies every token it receives. Command keywords invoke
// the bound editor action immediately, reserved tokens are dropped, and any
// other token is applied to the editor's barcode field by a task on the
// handler's scan queue:
//
//  1. drain pending field edits and their onchange cascades
//  2. run the pre-apply hook, which may veto the scan
//  3. arm the scroll intent and record the token as last scanned
//  4. write the token into the barcode field and wait for its cascade
//
// Tasks run one at a time in arrival order. A failed task is logged and
// reported to the operator once; it never blocks the scans queued after it.
package dispatch
