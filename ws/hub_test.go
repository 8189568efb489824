package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient monta um Client sem conexão real — addClient/removeClient e
// BroadcastToAll só tocam no channel send, nunca no conn.
func newTestClient(sessionID string, isAdmin bool) *Client {
	return &Client{
		sessionID: sessionID,
		isAdmin:   isAdmin,
		send:      make(chan []byte, sendBufferSize),
	}
}

func TestHubBroadcastToAll(t *testing.T) {
	hub := NewHub()

	a := newTestClient("sess-a", false)
	b := newTestClient("sess-b", false)
	hub.addClient(a)
	hub.addClient(b)

	hub.BroadcastToAll(Event{Op: OpViewerCount, Data: ViewerCountData{Count: 3}})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, OpViewerCount, event.Op)
			assert.Equal(t, int64(1), event.Seq)
		default:
			t.Fatalf("client %s did not receive the event", c.sessionID)
		}
	}
}

func TestHubSeqIncrements(t *testing.T) {
	hub := NewHub()
	c := newTestClient("sess-a", false)
	hub.addClient(c)

	hub.BroadcastToAll(Event{Op: OpViewerCount})
	hub.BroadcastToAll(Event{Op: OpViewerCount})

	var first, second Event
	require.NoError(t, json.Unmarshal(<-c.send, &first))
	require.NoError(t, json.Unmarshal(<-c.send, &second))
	assert.Equal(t, first.Seq+1, second.Seq)
}

func TestHubViewerGoneCallback(t *testing.T) {
	hub := NewHub()

	gone := make(chan string, 1)
	hub.OnViewerGone(func(sessionID string) { gone <- sessionID })

	t.Run("fires only when the last connection drops", func(t *testing.T) {
		tab1 := newTestClient("sess-a", false)
		tab2 := newTestClient("sess-a", false) // segunda aba da mesma sessão
		hub.addClient(tab1)
		hub.addClient(tab2)

		hub.removeClient(tab1)
		select {
		case id := <-gone:
			t.Fatalf("callback fired too early for %s", id)
		case <-time.After(50 * time.Millisecond):
		}

		hub.removeClient(tab2)
		select {
		case id := <-gone:
			assert.Equal(t, "sess-a", id)
		case <-time.After(time.Second):
			t.Fatal("callback never fired")
		}
	})

	t.Run("never fires for admin connections", func(t *testing.T) {
		admin := newTestClient("admin:pastor", true)
		hub.addClient(admin)
		hub.removeClient(admin)

		select {
		case id := <-gone:
			t.Fatalf("callback fired for admin %s", id)
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()

	slow := &Client{sessionID: "slow", send: make(chan []byte)} // sem buffer, ninguém lendo
	fast := newTestClient("fast", false)
	hub.addClient(slow)
	hub.addClient(fast)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToAll(Event{Op: OpViewerCount})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	select {
	case <-fast.send:
	default:
		t.Fatal("fast client missed the event")
	}
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient("sess-a", false)
	hub.register <- c

	hub.Shutdown()
	hub.Shutdown() // idempotente

	// O channel do client foi fechado — range em WritePump terminaria.
	_, open := <-c.send
	assert.False(t, open)
}
