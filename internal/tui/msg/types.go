package msg

import (
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/host"
)

// WarnMsg asks the TUI to show a blocking warning dialog.
type WarnMsg struct {
	Title string
	Body  string
}

// PromptMsg asks the TUI to open a dialog with one text input.
type PromptMsg struct {
	Prompt host.Prompt
}

// EventMsg carries an event published on the scan core's bus.
type EventMsg struct {
	Event event.Event
}

// ScanSettledMsg is sent when a queued scan has been applied or has failed.
type ScanSettledMsg struct {
	Token string
	Err   error
}

// QuantityDoneMsg is sent when a confirmed quantity has been written, or
// the attempt failed.
type QuantityDoneMsg struct {
	Input string
	Err   error
}
