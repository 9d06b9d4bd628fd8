// Package records exposes the records displayed by a host sub-view through a
// single [View] interface and locates the record a barcode refers to.
//
// Hosts show the same lines either as list rows or as kanban cards. The two
// shapes store their values differently, so each gets its own adapter
// ([Row], [Card]) implementing [View]; resolution code only sees [View].
package records
