package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/scenario"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, baseURL string) *websocket.Conn {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	require.NoError(t, err)
	parsed.Scheme = "ws"
	parsed.Path = "/"

	conn, resp, err := websocket.DefaultDialer.Dial(parsed.String(), nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.NoError(t, err, "failed to open websocket connection")
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err, "failed to read frame")

	var msg map[string]any
	require.NoError(t, json.Unmarshal(payload, &msg))
	require.Equal(t, "frame", msg["type"])
	frame, ok := msg["frame"].(map[string]any)
	require.True(t, ok, "frame payload is %T", msg["frame"])
	return frame
}

func classicSim(t *testing.T) *game.Sim {
	t.Helper()
	s, err := scenario.Default().Build()
	require.NoError(t, err)
	return s
}

func TestHandle_LateJoinerGetsLastFrame(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)

	s := classicSim(t)
	_, err := s.RunTicks(5)
	require.NoError(t, err)
	hub.SetRun("run-1")
	require.NoError(t, hub.Publish(s.Frame()))

	conn := dial(t, srv.URL)
	frame := readFrame(t, conn)

	assert.EqualValues(t, 5, frame["tick"])
	assert.EqualValues(t, s.Frame().Remaining, frame["remaining"])
	agents, ok := frame["agents"].([]any)
	require.True(t, ok)
	require.Len(t, agents, 5)
	player := agents[0].(map[string]any)
	assert.Equal(t, "player", player["name"])
	assert.Equal(t, "controlled", player["kind"])
	assert.Equal(t, "left", player["facing"])
	outcome := frame["outcome"].(map[string]any)
	assert.Equal(t, "running", outcome["reason"])
}

func TestPublish_ReachesEveryViewer(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)

	a := dial(t, srv.URL)
	b := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Viewers() == 2 }, 2*time.Second, 10*time.Millisecond)

	s := classicSim(t)
	for i := 0; i < 3; i++ {
		_, err := s.Step()
		require.NoError(t, err)
		require.NoError(t, hub.Publish(s.Frame()))
	}
	for _, conn := range []*websocket.Conn{a, b} {
		for want := 1; want <= 3; want++ {
			assert.EqualValues(t, want, readFrame(t, conn)["tick"])
		}
	}
}

func TestHandle_SteerRequestsQueueInOrder(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)
	conn := dial(t, srv.URL)

	for _, raw := range []string{
		`not json`,
		`{"type":"steer","dir":"sideways"}`,
		`{"type":"hello"}`,
		`{"type":"steer","dir":"down"}`,
		`{"type":"steer","dir":"up"}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
	}
	require.Eventually(t, func() bool { return len(hub.requests) == 2 }, 2*time.Second, 10*time.Millisecond)

	s := classicSim(t)
	assert.Equal(t, 2, hub.Drain(s))
	assert.Equal(t, game.Up, s.PendingDirection())
	assert.Equal(t, 0, hub.Drain(s))
}

func TestHub_DropsRequestsWhenFull(t *testing.T) {
	hub := NewHub(HubConfig{RequestBuffer: 1})
	assert.True(t, hub.enqueue(game.Left))
	assert.False(t, hub.enqueue(game.Right))
	assert.Equal(t, game.Left, <-hub.Requests())
}

func TestHandle_ViewerLeaves(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)
	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Viewers() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Viewers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsViewers(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)
	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Viewers() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Viewers())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHandle_JoinDuringPublishKeepsOrder(t *testing.T) {
	hub := NewHub(HubConfig{})
	srv := newTestServer(t, hub)

	const last = 300
	require.NoError(t, hub.Publish(game.Frame{Tick: 1}))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tick := 2; tick <= last; tick++ {
			hub.Publish(game.Frame{Tick: tick})
			time.Sleep(time.Millisecond)
		}
	}()

	conn := dial(t, srv.URL)
	prev := 0.0
	for prev < last {
		tick, ok := readFrame(t, conn)["tick"].(float64)
		require.True(t, ok)
		require.Greater(t, tick, prev, "frame T=%v arrived after T=%v", tick, prev)
		prev = tick
	}
	<-done
}
