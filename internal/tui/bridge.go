package tui

import (
	"context"
	"sync"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/tui/msg"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge delivers messages from the scan core to the running program. Post
// never blocks, so it is safe from inside Update and from the scan worker;
// messages reach the program in the order they were posted.
type Bridge struct {
	mu    sync.Mutex
	queue []tea.Msg
	wake  chan struct{}
}

// NewBridge creates an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{wake: make(chan struct{}, 1)}
}

// Post queues m for delivery.
func (b *Bridge) Post(m tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, m)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Warn implements host.Notifier.
func (b *Bridge) Warn(title, body string) {
	b.Post(msg.WarnMsg{Title: title, Body: body})
}

// Open implements host.Modal.
func (b *Bridge) Open(p host.Prompt) {
	b.Post(msg.PromptMsg{Prompt: p})
}

// Run delivers queued messages through send until ctx is done.
func (b *Bridge) Run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}
		for _, m := range b.take() {
			send(m)
		}
	}
}

// take removes and returns every queued message.
func (b *Bridge) take() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	queued := b.queue
	b.queue = nil
	return queued
}
