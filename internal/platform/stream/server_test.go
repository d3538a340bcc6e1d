package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/skyline-sprint/internal/metrics"
)

type wireMessage struct {
	Type     string `json:"type"`
	Version  int    `json:"version"`
	Snapshot *struct {
		Scene  string `json:"scene"`
		Mode   string `json:"mode"`
		Seed   uint32 `json:"seed"`
		Tick   uint64 `json:"tick"`
		Player struct {
			Lane       int `json:"lane"`
			TargetLane int `json:"target_lane"`
		} `json:"player"`
	} `json:"snapshot"`
}

func startServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, base, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(base, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", payload, err)
	}
	return msg
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHelloCarriesSeed(t *testing.T) {
	srv := startServer(t, Config{FPS: 60})
	conn := dial(t, srv.URL, "?seed=42")

	hello := readMessage(t, conn)
	if hello.Type != "hello" || hello.Version != ProtocolVersion {
		t.Fatalf("first message = %+v", hello)
	}
	if hello.Snapshot == nil || hello.Snapshot.Seed != 42 || hello.Snapshot.Scene != "play" {
		t.Errorf("hello snapshot = %+v", hello.Snapshot)
	}

	frame := readMessage(t, conn)
	if frame.Type != "frame" || frame.Snapshot == nil {
		t.Errorf("second message = %+v", frame)
	}
}

func TestDailyMode(t *testing.T) {
	srv := startServer(t, Config{FPS: 60})
	conn := dial(t, srv.URL, "?mode=daily&seed=7")

	hello := readMessage(t, conn)
	if hello.Snapshot == nil || hello.Snapshot.Mode != "daily" || hello.Snapshot.Seed != 7 {
		t.Errorf("hello snapshot = %+v", hello.Snapshot)
	}
}

func TestInvalidSeedRejected(t *testing.T) {
	srv := startServer(t, Config{})
	resp, err := http.Get(srv.URL + "/ws?seed=banana")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestInputReachesEngine(t *testing.T) {
	srv := startServer(t, Config{FPS: 60})
	conn := dial(t, srv.URL, "?seed=12345")
	readMessage(t, conn)

	sendJSON(t, conn, clientMessage{Type: "input", Action: "NOT_AN_ACTION"})
	sendJSON(t, conn, clientMessage{Type: "input", Action: "LANE_LEFT"})

	for i := 0; i < 120; i++ {
		msg := readMessage(t, conn)
		if msg.Type != "frame" {
			continue
		}
		if msg.Snapshot.Player.TargetLane == 0 {
			return
		}
	}
	t.Fatal("lane switch never showed up in a snapshot")
}

func TestPauseStopsTicks(t *testing.T) {
	srv := startServer(t, Config{FPS: 60})
	conn := dial(t, srv.URL, "?seed=3")
	readMessage(t, conn)

	sendJSON(t, conn, clientMessage{Type: "input", Action: "PAUSE"})

	var paused *wireMessage
	for i := 0; i < 120; i++ {
		msg := readMessage(t, conn)
		if msg.Type == "frame" && msg.Snapshot.Scene == "pause" {
			paused = &msg
			break
		}
	}
	if paused == nil {
		t.Fatal("never paused")
	}
	next := readMessage(t, conn)
	if next.Snapshot.Tick != paused.Snapshot.Tick {
		t.Errorf("tick advanced while paused: %d -> %d", paused.Snapshot.Tick, next.Snapshot.Tick)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	srv := startServer(t, Config{FPS: 60, Metrics: collector})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d", resp.StatusCode)
	}

	conn := dial(t, srv.URL, "?seed=1")
	readMessage(t, conn)
	readMessage(t, conn)

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `sprint_active_sessions{transport="ws"} 1`) {
		t.Errorf("metrics missing active session:\n%s", body)
	}
}
