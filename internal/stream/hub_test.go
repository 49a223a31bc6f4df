package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/particle"
)

func quietHub(buffer int) *Hub {
	return NewHub(buffer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewSnapshotCopies(t *testing.T) {
	f := particle.Field{{X: 1, Y: 2, Size: 3, Opacity: 0.4, Color: particle.HSL{H: 210}}}
	s := NewSnapshot(7, particle.Bounds{Width: 10, Height: 20}, f)
	f[0].X = 99

	assert.Equal(t, uint64(7), s.Tick)
	assert.Equal(t, 10.0, s.Width)
	require.Len(t, s.Particles, 1)
	assert.Equal(t, ParticleState{X: 1, Y: 2, Size: 3, Opacity: 0.4, Hue: 210}, s.Particles[0])
}

func TestPublishDropsForSlowClients(t *testing.T) {
	h := quietHub(1)
	c := h.register(nil)
	h.Publish(Snapshot{Tick: 1})
	h.Publish(Snapshot{Tick: 2})

	got := <-c.send
	assert.Equal(t, uint64(1), got.Tick)
	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), latest.Tick)
}

func TestSnapshotEndpoint(t *testing.T) {
	h := quietHub(1)
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	h.Publish(Snapshot{Tick: 3, Width: 800, Height: 600})
	resp, err = http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var s Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, uint64(3), s.Tick)
}

func TestWebsocketStream(t *testing.T) {
	h := quietHub(4)
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	h.Publish(Snapshot{Tick: 1})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	var s Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&s))
	assert.Equal(t, uint64(1), s.Tick, "latest snapshot is sent on connect")

	h.Publish(Snapshot{Tick: 2, Particles: []ParticleState{{X: 5}}})
	require.NoError(t, conn.ReadJSON(&s))
	assert.Equal(t, uint64(2), s.Tick)
	require.Len(t, s.Particles, 1)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeClosesClientsOnShutdown(t *testing.T) {
	h := quietHub(4)
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() { served <- Serve(ctx, addr, h) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Zero(t, h.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
