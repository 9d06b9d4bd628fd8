// Package event provides a pub-sub event bus that reports the life of each
// scan to interested components (the TUI status line, the debug log).
//
// # Event Categories
//
// Classification:
//   - [ScanReceivedEvent]: a raw token arrived
//   - [CommandInvokedEvent]: a token matched a command keyword
//   - [ScanRejectedEvent]: a token was dropped (reserved prefix, view mode)
//
// Serialized application:
//   - [ScanQueuedEvent], [ScanStartedEvent], [ScanFinishedEvent]
//
// Quantity capture and view refresh:
//   - [QuantitySetEvent], [RecordMissingEvent]
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine, which for queue events is the scan worker. Handlers
// must not block.
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action", e.g. "scan.queued".
package event
