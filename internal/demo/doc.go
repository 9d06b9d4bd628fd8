// Package demo is an in-memory stock picking editor implementing every host
// interface the scan core consumes. It backs the replay command, the
// terminal UI, and end-to-end tests.
//
// A picking has form fields (partner, origin, barcode) and operation lines.
// Committing a field or writing the barcode field schedules an onchange
// cascade on its own goroutine; a barcode cascade bumps the quantity of the
// matching line and then refreshes the lines sub-view, which is where the
// scroll intent armed by the scan is consumed.
package demo
