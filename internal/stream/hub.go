// Package stream broadcasts particle field snapshots to websocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iburimskiy/particle-field/internal/particle"
)

const writeWait = 5 * time.Second

// ParticleState is the wire form of one particle.
type ParticleState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
	Hue     float64 `json:"hue"`
}

// Snapshot is the wire form of a field at a given tick.
type Snapshot struct {
	Tick      uint64          `json:"tick"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Particles []ParticleState `json:"particles"`
}

// NewSnapshot copies f so the snapshot can leave the simulation goroutine.
func NewSnapshot(tick uint64, b particle.Bounds, f particle.Field) Snapshot {
	ps := make([]ParticleState, len(f))
	for i, p := range f {
		ps[i] = ParticleState{X: p.X, Y: p.Y, Size: p.Size, Opacity: p.Opacity, Hue: p.Color.H}
	}
	return Snapshot{Tick: tick, Width: b.Width, Height: b.Height, Particles: ps}
}

// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn // nil for clients without a socket
	send chan Snapshot
}

// Hub fans snapshots out to connected clients. Slow clients miss snapshots
// instead of stalling the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	latest  *Snapshot
	buffer  int
	logger  *slog.Logger
}

// NewHub creates a hub whose clients buffer up to buffer snapshots.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		buffer:  buffer,
		logger:  logger,
	}
}

// Publish records s as the latest snapshot and offers it to every client.
func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &s
	for c := range h.clients {
		select {
		case c.send <- s:
		default:
		}
	}
}

// Latest returns the most recent snapshot, if any.
func (h *Hub) Latest() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return Snapshot{}, false
	}
	return *h.latest, true
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan Snapshot, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest != nil {
		c.send <- *h.latest
	}
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// closeAll sends a going-away close frame to every client, closes the
// sockets and drops the clients. Their handlers return once their reads fail.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the request to a websocket and streams snapshots to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			h.logger.Error("websocket upgrade failed", "error", err)
		}
		return
	}

	c := h.register(conn)
	h.logger.Info("stream client connected", "remote", r.RemoteAddr)

	closed := make(chan struct{})
	go h.readSocket(conn, closed)
	h.writeSocket(conn, c, closed)

	h.unregister(c)
	h.logger.Info("stream client disconnected", "remote", r.RemoteAddr)
}

// readSocket discards client messages and reports when the peer goes away.
func (h *Hub) readSocket(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("stream client read failed", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writeSocket(conn *websocket.Conn, c *client, closed <-chan struct{}) {
	defer conn.Close()
	for {
		select {
		case <-closed:
			return
		case s := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(s); err != nil {
				h.logger.Warn("stream client write failed", "error", err)
				return
			}
		}
	}
}
