package server

import (
	"image"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *GameHub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, hub.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// bigSnapshot is large enough that a client which never reads fills its
// socket buffers after a few messages.
func bigSnapshot(score int) shapegame.Snapshot {
	snap := shapegame.Snapshot{State: shapegame.StateRunning, Score: score}
	for i := 0; i < shapegame.MaxShapeCount; i++ {
		snap.Shapes = append(snap.Shapes, shapegame.Shape{
			Position: image.Pt(300+i, 300),
			Kind:     shapegame.KindTriangle,
			Color:    shapegame.ColorGreen,
		})
	}
	return snap
}

func TestGameHub_PublishDoesNotBlockOnStalledClient(t *testing.T) {
	hub := NewGameHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	// This client never reads.
	dialHub(t, ts)
	waitForClients(t, hub, 1)

	snap := bigSnapshot(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 2000; i++ {
			hub.Publish(snap)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a client that stopped reading")
	}

	if hub.Dropped() == 0 {
		t.Error("expected snapshots to be dropped for the stalled client")
	}
}

func TestGameHub_ReadingClientUnaffectedByStalledClient(t *testing.T) {
	hub := NewGameHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	dialHub(t, ts)
	reader := dialHub(t, ts)
	waitForClients(t, hub, 2)

	for i := 0; i < 50; i++ {
		hub.Publish(bigSnapshot(i))
	}
	hub.Publish(shapegame.Snapshot{State: shapegame.StateOver, Over: true, Score: 99})

	reader.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var snap struct {
			Score int  `json:"score"`
			Over  bool `json:"over"`
		}
		if err := reader.ReadJSON(&snap); err != nil {
			// The final snapshot may be dropped if this reader fell behind;
			// the hub still replays it to new clients.
			break
		}
		if snap.Over {
			if snap.Score != 99 {
				t.Errorf("final score = %d, want 99", snap.Score)
			}
			return
		}
	}

	late := dialHub(t, ts)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap struct {
		Score int `json:"score"`
	}
	if err := late.ReadJSON(&snap); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if snap.Score != 99 {
		t.Errorf("replayed score = %d, want 99", snap.Score)
	}
}

func TestGameHub_DisconnectUnregisters(t *testing.T) {
	hub := NewGameHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	conn := dialHub(t, ts)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing after the client left must not panic on its closed queue.
	hub.Publish(shapegame.Snapshot{Score: 1})
}
