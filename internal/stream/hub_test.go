package stream_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/stream"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, h *stream.Hub, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for h.ClientCount() != n {
		select {
		case <-deadline:
			t.Fatalf("Expected %d clients, got %d", n, h.ClientCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHub_BroadcastsAlerts(t *testing.T) {
	h := stream.NewHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	defer conn.Close()
	waitForClients(t, h, 1)

	sent := &alerts.Alert{
		ID:       "a-1",
		Type:     "MotionDetection",
		Source:   "cam-001",
		Severity: alerts.SeverityHigh,
		Status:   alerts.StatusActive,
	}
	if err := h.Publish(sent); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got alerts.Alert
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got.ID != sent.ID || got.Severity != sent.Severity {
		t.Errorf("Unexpected alert: %+v", got)
	}
}

func TestHub_DetachOnDisconnect(t *testing.T) {
	h := stream.NewHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)

	// Publishing to an empty hub is a no-op
	if err := h.Publish(&alerts.Alert{ID: "a-2"}); err != nil {
		t.Errorf("Publish to empty hub failed: %v", err)
	}
}

func TestHub_MultipleSubscribers(t *testing.T) {
	h := stream.NewHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	c1 := dialHub(t, srv)
	defer c1.Close()
	c2 := dialHub(t, srv)
	defer c2.Close()
	waitForClients(t, h, 2)

	h.Publish(&alerts.Alert{ID: "a-3", Severity: alerts.SeverityCritical})

	for _, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got alerts.Alert
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if got.ID != "a-3" {
			t.Errorf("Expected a-3, got %s", got.ID)
		}
	}
}
