package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/tui/msg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_DeliversInOrder(t *testing.T) {
	b := NewBridge()

	var mu sync.Mutex
	var got []tea.Msg
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, func(m tea.Msg) {
			mu.Lock()
			got = append(got, m)
			mu.Unlock()
		})
	}()

	b.Warn("Error", "first")
	b.Open(host.Prompt{Title: "Quantity", Value: "4"})
	b.Warn("Error", "second")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, msg.WarnMsg{Title: "Error", Body: "first"}, got[0])
	prompt, ok := got[1].(msg.PromptMsg)
	require.True(t, ok)
	assert.Equal(t, "4", prompt.Prompt.Value)
	assert.Equal(t, msg.WarnMsg{Title: "Error", Body: "second"}, got[2])
}

func TestBridge_PostDoesNotBlockWithoutReader(t *testing.T) {
	b := NewBridge()
	for i := 0; i < 100; i++ {
		b.Post(msg.WarnMsg{Title: "Error"})
	}
	assert.Len(t, b.take(), 100)
	assert.Empty(t, b.take())
}
