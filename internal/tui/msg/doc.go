// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// This package contains the [tea.Msg] types the TUI receives from the scan
// core: operator warnings, quantity prompts, bus events, and the results of
// scans and quantity confirmations running off the UI goroutine. Command
// factories producing them live in commands.go.
package msg
