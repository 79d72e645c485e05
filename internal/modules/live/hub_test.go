package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// wsPipe upgrades one real connection and hands back both ends.
func wsPipe(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	return <-serverConns, clientConn
}

func TestBroadcast_ConcurrentWritersOneConnection(t *testing.T) {
	serverConn, clientConn := wsPipe(t)

	hub := NewHub()
	defer hub.Close()

	cl := hub.Register(1, serverConn, []int64{7})
	defer hub.Release(1, cl)

	const events = 100
	received := make(chan Event, events)
	go func() {
		for {
			var ev Event
			if err := clientConn.ReadJSON(&ev); err != nil {
				return
			}
			received <- ev
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(Event{Type: "booking.created", WorkspaceID: 7, BookingID: int64(i)})
		}(i)
	}
	wg.Wait()

	// Every frame must arrive intact despite the concurrent senders.
	for i := 0; i < events; i++ {
		select {
		case ev := <-received:
			assert.Equal(t, int64(7), ev.WorkspaceID)
			assert.Equal(t, "booking.created", ev.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", i, events)
		}
	}
	assert.Equal(t, 1, hub.SubscriberCount(), "no connection dropped")
}

func TestBroadcast_FiltersByWorkspace(t *testing.T) {
	serverConn, clientConn := wsPipe(t)

	hub := NewHub()
	defer hub.Close()

	cl := hub.Register(1, serverConn, []int64{7})
	defer hub.Release(1, cl)

	hub.Broadcast(Event{WorkspaceID: 8, BookingID: 1})
	hub.Broadcast(Event{WorkspaceID: 7, BookingID: 2})

	assert.NoError(t, clientConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	assert.NoError(t, clientConn.ReadJSON(&ev))
	assert.Equal(t, int64(2), ev.BookingID, "the workspace 8 event is filtered out")
}

func TestRelease_IgnoresStaleClient(t *testing.T) {
	serverA, _ := wsPipe(t)
	serverB, clientB := wsPipe(t)

	hub := NewHub()
	defer hub.Close()

	stale := hub.Register(1, serverA, nil)
	fresh := hub.Register(1, serverB, nil) // reconnect replaces serverA

	// The old connection's deferred cleanup must not tear down the
	// reconnect.
	hub.Release(1, stale)
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Broadcast(Event{WorkspaceID: 7, BookingID: 9})

	assert.NoError(t, clientB.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	assert.NoError(t, clientB.ReadJSON(&ev))
	assert.Equal(t, int64(9), ev.BookingID)

	hub.Release(1, fresh)
	assert.Equal(t, 0, hub.SubscriberCount())
}
