package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/seeder"
)

func receive(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case b, ok := <-ch:
		require.True(t, ok, "channel closed")
		var m Message
		require.NoError(t, json.Unmarshal(b, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHubBroadcastsProgressAndSummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	a := &Client{ID: "a", UserID: "admin-1", Send: make(chan []byte, 4)}
	b := &Client{ID: "b", UserID: "admin-2", Send: make(chan []byte, 4)}
	h.RegisterClient(a)
	h.RegisterClient(b)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	h.Progress(seeder.ProgressEvent{CurrentStep: "generate users", CompletedSteps: 3, TotalSteps: 13})
	for _, c := range []*Client{a, b} {
		m := receive(t, c.Send)
		assert.Equal(t, MessageProgress, m.Type)
		data := m.Data.(map[string]any)
		assert.Equal(t, "generate users", data["current_step"])
	}

	h.Summary(&seeder.Result{Success: true})
	m := receive(t, a.Send)
	assert.Equal(t, MessageSummary, m.Type)
	assert.Equal(t, true, m.Data.(map[string]any)["success"])
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	c := &Client{ID: "a", Send: make(chan []byte, 1)}
	h.RegisterClient(c)
	h.UnregisterClient(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Zero(t, h.Clients())
}

func TestHubDropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	slow := &Client{ID: "slow", Send: make(chan []byte)}
	h.RegisterClient(slow)
	h.BroadcastJSON(Message{Type: MessageProgress})

	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestHubShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := &Client{ID: "a", Send: make(chan []byte, 1)}
	h.RegisterClient(c)
	cancel()
	<-done

	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHubCallsReturnAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	a := &Client{ID: "a", Send: make(chan []byte, 1)}
	h.RegisterClient(a)
	cancel()
	<-stopped

	returned := make(chan struct{})
	late := &Client{ID: "late", Send: make(chan []byte, 1)}
	go func() {
		h.UnregisterClient(a)
		h.RegisterClient(late)
		h.UnregisterClient(late)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}

	_, ok := <-late.Send
	assert.False(t, ok)
	assert.Zero(t, h.Clients())
}
