package msg

import (
	"context"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/scanqueue"
	tea "github.com/charmbracelet/bubbletea"
)

// WaitScan returns a command that waits for a queued scan to settle.
func WaitScan(ticket *scanqueue.Ticket) tea.Cmd {
	return func() tea.Msg {
		err := ticket.Wait(context.Background())
		return ScanSettledMsg{Token: ticket.Label, Err: err}
	}
}

// ConfirmPrompt returns a command that confirms p with input off the UI
// goroutine, since confirming writes and reloads a record.
func ConfirmPrompt(p host.Prompt, input string) tea.Cmd {
	return func() tea.Msg {
		if p.Confirm == nil {
			return QuantityDoneMsg{Input: input}
		}
		err := p.Confirm(context.Background(), input)
		return QuantityDoneMsg{Input: input, Err: err}
	}
}
