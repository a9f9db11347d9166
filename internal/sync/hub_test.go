package sync

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), `"welcome"`)

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)
	return hub, conn
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub, conn := dialHub(t)

	hub.BroadcastJSON(NewFilmAdded("abc", "Dune"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev FilmEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventFilmAdded, ev.Type)
	assert.Equal(t, "abc", ev.ID)
	assert.Equal(t, "Dune", ev.Title)
	assert.False(t, ev.At.IsZero())
}

func TestHub_ClientRemovedOnDisconnect(t *testing.T) {
	hub, conn := dialHub(t)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Stats().WSClients == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseAll(t *testing.T) {
	hub, _ := dialHub(t)

	hub.CloseAll()

	assert.Equal(t, 0, hub.Stats().WSClients)
}
