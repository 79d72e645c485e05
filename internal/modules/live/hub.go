package live

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the wire frame pushed to subscribers when a booking changes.
type Event struct {
	Type        string `json:"type"`
	WorkspaceID int64  `json:"workspace_id"`
	BookingID   int64  `json:"booking_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

// client owns one connection. writeMu serializes frame writes; the
// websocket protocol allows at most one concurrent writer per
// connection.
type client struct {
	conn       *websocket.Conn
	workspaces map[int64]bool // empty means all workspaces
	writeMu    sync.Mutex
}

func (c *client) send(ev Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(ev)
}

func (c *client) wants(workspaceID int64) bool {
	return len(c.workspaces) == 0 || c.workspaces[workspaceID]
}

// Hub fans booking events out to websocket subscribers, keyed by the
// workspaces each connection asked for.
type Hub struct {
	clients map[int64]*client // keyed by user id, one connection per user
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*client),
	}
}

// Register replaces any existing connection for the user and returns
// the client handle. Pass the handle back to Release so a reconnect
// cannot be torn down by the old connection's cleanup.
func (h *Hub) Register(userID int64, conn *websocket.Conn, workspaceIDs []int64) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[userID]; exists && old != nil {
		_ = old.conn.Close()
	}

	subs := make(map[int64]bool, len(workspaceIDs))
	for _, id := range workspaceIDs {
		subs[id] = true
	}
	c := &client{conn: conn, workspaces: subs}
	h.clients[userID] = c
	return c
}

// Release drops the client by identity: a stale handle never removes a
// connection registered after it.
func (h *Hub) Release(userID int64, c *client) {
	if c == nil {
		return
	}

	h.mutex.Lock()
	if h.clients[userID] == c {
		delete(h.clients, userID)
	}
	h.mutex.Unlock()

	_ = c.conn.Close()
}

// Broadcast delivers the event to every subscriber of its workspace.
// The subscriber set is snapshotted under the hub lock; writes happen
// outside it, serialized per connection. Write failures drop the
// connection.
func (h *Hub) Broadcast(ev Event) {
	h.mutex.RLock()
	targets := make(map[int64]*client, len(h.clients))
	for userID, c := range h.clients {
		if c.wants(ev.WorkspaceID) {
			targets[userID] = c
		}
	}
	h.mutex.RUnlock()

	for userID, c := range targets {
		if err := c.send(ev); err != nil {
			h.Release(userID, c)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.clients {
		if c != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, userID)
	}
}
