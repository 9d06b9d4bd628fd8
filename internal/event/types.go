package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier, e.g. "scan.queued".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// Event type identifiers.
const (
	TypeScanReceived   = "scan.received"
	TypeCommandInvoked = "scan.command"
	TypeScanRejected   = "scan.rejected"
	TypeScanQueued     = "scan.queued"
	TypeScanStarted    = "scan.started"
	TypeScanFinished   = "scan.finished"
	TypeQuantitySet    = "quantity.set"
	TypeRecordMissing  = "record.missing"
	TypeConfigReloaded = "config.reloaded"
)

// -----------------------------------------------------------------------------
// Classification Events
// -----------------------------------------------------------------------------

// ScanReceivedEvent is emitted for every raw token handed to the dispatcher.
type ScanReceivedEvent struct {
	baseEvent
	Token string
}

// NewScanReceivedEvent creates a ScanReceivedEvent.
func NewScanReceivedEvent(token string) ScanReceivedEvent {
	return ScanReceivedEvent{baseEvent: newBaseEvent(TypeScanReceived), Token: token}
}

// CommandInvokedEvent is emitted when a token triggers a bound command.
type CommandInvokedEvent struct {
	baseEvent
	Keyword string
	Err     error
}

// NewCommandInvokedEvent creates a CommandInvokedEvent.
func NewCommandInvokedEvent(keyword string, err error) CommandInvokedEvent {
	return CommandInvokedEvent{baseEvent: newBaseEvent(TypeCommandInvoked), Keyword: keyword, Err: err}
}

// ScanRejectedEvent is emitted when a token is dropped before queueing.
type ScanRejectedEvent struct {
	baseEvent
	Token  string
	Reason string // "reserved" or "not_editable"
	// Suggestion is a bound command keyword close to a reserved Token.
	Suggestion string
}

// NewScanRejectedEvent creates a ScanRejectedEvent.
func NewScanRejectedEvent(token, reason string) ScanRejectedEvent {
	return ScanRejectedEvent{baseEvent: newBaseEvent(TypeScanRejected), Token: token, Reason: reason}
}

// WithSuggestion returns a copy of e carrying a close command keyword.
func (e ScanRejectedEvent) WithSuggestion(keyword string) ScanRejectedEvent {
	e.Suggestion = keyword
	return e
}

// -----------------------------------------------------------------------------
// Queue Events
// -----------------------------------------------------------------------------

// ScanQueuedEvent is emitted when a task is appended to the scan queue.
type ScanQueuedEvent struct {
	baseEvent
	TicketID string
	Label    string
	Depth    int // tasks waiting or running, including this one
}

// NewScanQueuedEvent creates a ScanQueuedEvent.
func NewScanQueuedEvent(ticketID, label string, depth int) ScanQueuedEvent {
	return ScanQueuedEvent{baseEvent: newBaseEvent(TypeScanQueued), TicketID: ticketID, Label: label, Depth: depth}
}

// ScanStartedEvent is emitted when the worker begins a task.
type ScanStartedEvent struct {
	baseEvent
	TicketID string
	Label    string
}

// NewScanStartedEvent creates a ScanStartedEvent.
func NewScanStartedEvent(ticketID, label string) ScanStartedEvent {
	return ScanStartedEvent{baseEvent: newBaseEvent(TypeScanStarted), TicketID: ticketID, Label: label}
}

// ScanFinishedEvent is emitted when a task settles.
type ScanFinishedEvent struct {
	baseEvent
	TicketID string
	Label    string
	Err      error
	Duration time.Duration
	Depth    int // tasks still waiting
}

// NewScanFinishedEvent creates a ScanFinishedEvent.
func NewScanFinishedEvent(ticketID, label string, err error, d time.Duration, depth int) ScanFinishedEvent {
	return ScanFinishedEvent{
		baseEvent: newBaseEvent(TypeScanFinished),
		TicketID:  ticketID,
		Label:     label,
		Err:       err,
		Duration:  d,
		Depth:     depth,
	}
}

// -----------------------------------------------------------------------------
// Quantity and View Events
// -----------------------------------------------------------------------------

// QuantitySetEvent is emitted after a captured quantity is written.
type QuantitySetEvent struct {
	baseEvent
	RecordID string
	Barcode  string
	Quantity float64
}

// NewQuantitySetEvent creates a QuantitySetEvent.
func NewQuantitySetEvent(recordID, barcode string, qty float64) QuantitySetEvent {
	return QuantitySetEvent{baseEvent: newBaseEvent(TypeQuantitySet), RecordID: recordID, Barcode: barcode, Quantity: qty}
}

// RecordMissingEvent is emitted when no displayed record matches a barcode.
type RecordMissingEvent struct {
	baseEvent
	Barcode string
	Context string // "scroll" or "quantity"
}

// NewRecordMissingEvent creates a RecordMissingEvent.
func NewRecordMissingEvent(barcode, context string) RecordMissingEvent {
	return RecordMissingEvent{baseEvent: newBaseEvent(TypeRecordMissing), Barcode: barcode, Context: context}
}

// ConfigReloadedEvent is emitted when the config file changed on disk and
// the matcher tables were rebuilt.
type ConfigReloadedEvent struct {
	baseEvent
	Path string
	Err  error
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(path string, err error) ConfigReloadedEvent {
	return ConfigReloadedEvent{baseEvent: newBaseEvent(TypeConfigReloaded), Path: path, Err: err}
}
