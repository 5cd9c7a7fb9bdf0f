package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/testutil"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServeWS_StreamsEvents(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("SESSION1")
	defer manager.CloseAll()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWS(w, r, hub, []byte(`{"type":"hello"}`))
	}))
	defer server.Close()

	conn := dial(t, server)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))

	_, initial, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if string(initial) != `{"type":"hello"}` {
		t.Errorf("initial message = %q", string(initial))
	}

	// Registration is processed asynchronously by the hub
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	manager.Publish("SESSION1", model.Event{Type: model.EventGameOver, SessionID: "SESSION1"})

	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var ev model.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if ev.Type != model.EventGameOver {
		t.Errorf("event type = %q, want %q", ev.Type, model.EventGameOver)
	}
}

func TestServeWS_ClosesWhenHubCloses(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("SESSION1")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWS(w, r, hub, nil)
	}))
	defer server.Close()

	conn := dial(t, server)

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	manager.Close("SESSION1")

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
}

func TestServeWS_RejectsPlainHTTP(t *testing.T) {
	hub := NewHub("SESSION1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := ServeWS(rec, req, hub, nil); err == nil {
		t.Error("expected upgrade error for a plain request")
	}
}
