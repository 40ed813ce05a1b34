package loop

import (
	"sync"
	"time"
)

// Hub keeps track of the sessions on one host so they can be warned before
// it shuts down. Every session still plays its own game; nothing else is
// shared.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]*Handle
	nextID  int
	closing bool
}

// Handle is a session's registration with a Hub.
type Handle struct {
	ID       int
	Username string
	shutdown chan struct{}
	once     sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[int]*Handle),
		nextID:  1,
	}
}

// Register adds a session. Sessions registered during a shutdown are told
// about it immediately.
func (h *Hub) Register(username string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &Handle{
		ID:       h.nextID,
		Username: username,
		shutdown: make(chan struct{}),
	}
	h.nextID++
	h.clients[handle.ID] = handle
	if h.closing {
		handle.notify()
	}
	return handle
}

// Unregister removes a session.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// Players returns the number of registered sessions.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies every session and waits until they have all
// unregistered or timeout has passed.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.Lock()
	h.closing = true
	for _, handle := range h.clients {
		handle.notify()
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for h.Players() > 0 {
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}

func (c *Handle) notify() {
	c.once.Do(func() { close(c.shutdown) })
}

// ShuttingDown reports whether the host asked this session to leave.
func (c *Handle) ShuttingDown() bool {
	if c == nil {
		return false
	}
	select {
	case <-c.shutdown:
		return true
	default:
		return false
	}
}
