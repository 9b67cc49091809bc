package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestTCPFeed(t *testing.T) {
	hub := NewHub(nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer("", hub).Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	rd := bufio.NewReader(conn)

	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"type":"welcome"`)
	assert.Contains(t, line, `"transport":"tcp"`)

	waitFor(t, func() bool { return hub.Stats().TCPClients == 1 })

	hub.Publish(CatalogEvent{Type: EventIngestCompleted, RunID: "r1", Fonts: 12})
	line, err = rd.ReadString('\n')
	require.NoError(t, err)

	var ev CatalogEvent
	require.NoError(t, json.Unmarshal([]byte(line), &ev))
	assert.Equal(t, EventIngestCompleted, ev.Type)
	assert.Equal(t, "r1", ev.RunID)
	assert.Equal(t, 12, ev.Fonts)
	assert.False(t, ev.At.IsZero())

	_ = conn.Close()
	waitFor(t, func() bool { return hub.Stats().TCPClients == 0 })

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWSFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"transport":"websocket"`)

	waitFor(t, func() bool { return hub.Stats().WSClients == 1 })

	hub.Publish(NewEvent(EventIngestFailed, "r2"))
	_, msg, err = ws.ReadMessage()
	require.NoError(t, err)
	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventIngestFailed, ev.Type)

	hub.Close()
	assert.Equal(t, Stats{}, hub.Stats())
}
