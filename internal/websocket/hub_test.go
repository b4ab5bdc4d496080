package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_FanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient("client-" + string(rune('a'+i)))
		hub.Register(clients[i])
	}

	evt := OrderCreated(map[string]interface{}{"id": float64(42)})
	hub.Broadcast(evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		msgs := c.GetMessages()
		assert.Len(t, msgs, 1, "client %d should receive message", i)
	}
}

func TestHub_Broadcast_SkipsUnregistered(t *testing.T) {
	hub := NewHub()

	stays := newMockClient("stays")
	leaves := newMockClient("leaves")

	hub.Register(stays)
	hub.Register(leaves)
	hub.Unregister(leaves)

	evt := PaymentCreated(map[string]interface{}{"id": float64(1)})
	hub.Broadcast(evt)

	time.Sleep(10 * time.Millisecond)

	assert.Len(t, stays.GetMessages(), 1)
	assert.Len(t, leaves.GetMessages(), 0)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient("client-" + string(rune(i)))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, clientCount, hub.ClientCount())

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			evt := ExpenseCreated(map[string]interface{}{"id": float64(idx)})
			hub.Broadcast(evt)
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1")

	// Should not panic when unregistering a client that was never registered
	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastWithNoClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		evt := ClientCreated(map[string]interface{}{"id": float64(1)})
		hub.Broadcast(evt)
	})
}
