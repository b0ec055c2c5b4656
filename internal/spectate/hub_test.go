package spectate

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("viewer never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return conn
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)

	g := sim.New(sim.Options{Config: config.DefaultSonarConfig(), Seed: 3})
	defer g.Close()
	hub.Publish(g.Snapshot())
	hub.Publish(g.Snapshot())

	for want := uint64(1); want <= 2; want++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var frame struct {
			Type string         `json:"type"`
			Seq  uint64         `json:"seq"`
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if frame.Type != "snapshot" || frame.Seq != want {
			t.Errorf("frame = %s #%d, expected snapshot #%d", frame.Type, frame.Seq, want)
		}
		if frame.Data["mode"] != "start" {
			t.Errorf("mode = %v, expected start", frame.Data["mode"])
		}
	}
}

func TestHubDropsDisconnectedViewers(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d after disconnect, expected 0", hub.Clients())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPublishWithoutViewersIsSkipped(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < 5; i++ {
		hub.Publish(sim.Snapshot{})
	}

	conn := dialHub(t, hub)
	hub.Publish(sim.Snapshot{})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var frame struct {
		Seq uint64 `json:"seq"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if frame.Seq != 1 {
		t.Errorf("Seq = %d, expected 1 since frames without viewers are skipped", frame.Seq)
	}
}
